package billingstore

import (
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Insert(actual dbmodels.MilestoneActual) (inserted bool, err error)
	Exists(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error)
	SumByMilestone(spaceID, milestoneID string) (amount, hours float64, err error)
	List(spaceID, milestoneID string) (list []dbmodels.MilestoneActual, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Insert добавляет факт начисления, повтор по тому же источнику
// не создаёт дубля
func (i impl) Insert(actual dbmodels.MilestoneActual) (bool, error) {
	result := i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_kind"}, {Name: "source_id"}},
			DoNothing: true,
		}).
		Create(&actual)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "ошибка записи факта по этапу")
	}
	return result.RowsAffected > 0, nil
}

func (i impl) Exists(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.MilestoneActual{}).
		Where("space_id = ?", spaceID).
		Where("source_kind = ?", sourceKind).
		Where("source_id = ?", sourceID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) SumByMilestone(spaceID, milestoneID string) (amount, hours float64, err error) {
	totals := struct {
		Amount float64
		Hours  float64
	}{}
	err = i.db.
		Model(&dbmodels.MilestoneActual{}).
		Select("COALESCE(SUM(amount), 0) as amount, COALESCE(SUM(hours), 0) as hours").
		Where("space_id = ?", spaceID).
		Where("milestone_id = ?", milestoneID).
		Scan(&totals).
		Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "ошибка расчёта фактов по этапу")
	}
	return totals.Amount, totals.Hours, nil
}

func (i impl) List(spaceID, milestoneID string) ([]dbmodels.MilestoneActual, error) {
	list := []dbmodels.MilestoneActual{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("milestone_id = ?", milestoneID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
