package variationstore

import (
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Variation) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Variation, err error)
	GetByIDForUpdate(spaceID, id string) (rec *dbmodels.Variation, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Delete(spaceID, id string) error
	List(spaceID string, filter Filter) (list []dbmodels.Variation, err error)
	Save(rec workflow.Entity, expected models.WfStatus) error
}

type Filter struct {
	ProjectID   string
	MilestoneID string
	Statuses    []models.WfStatus
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Variation) (id string, err error) {
	err = i.db.
		Omit("Project", "Milestone", "Author").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Variation, error) {
	return i.getByID(i.db, spaceID, id)
}

// GetByIDForUpdate читает запись с блокировкой строки, вызывается только
// внутри транзакции перехода
func (i impl) GetByIDForUpdate(spaceID, id string) (*dbmodels.Variation, error) {
	return i.getByID(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) getByID(tx *gorm.DB, spaceID, id string) (*dbmodels.Variation, error) {
	rec := dbmodels.Variation{}
	err := tx.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Author").
		Preload("Milestone").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Variation{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) Delete(spaceID, id string) error {
	rec := dbmodels.Variation{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   spaceID,
		},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(spaceID string, filter Filter) ([]dbmodels.Variation, error) {
	list := []dbmodels.Variation{}
	tx := i.db.
		Where("space_id = ?", spaceID).
		Order("created_at DESC").
		Preload("Author").
		Preload("Milestone")
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if filter.MilestoneID != "" {
		tx = tx.Where("milestone_id = ?", filter.MilestoneID)
	}
	if len(filter.Statuses) != 0 {
		tx = tx.Where("status IN (?)", filter.Statuses)
	}
	err := tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

// Save фиксирует результат перехода при условии, что запись всё ещё в
// исходном статусе. Проигравший конкурентный запрос получает
// ErrConcurrentModification.
func (i impl) Save(rec workflow.Entity, expected models.WfStatus) error {
	row, ok := rec.(*dbmodels.Variation)
	if !ok {
		return errors.Errorf("неожиданный тип записи %T", rec)
	}
	tx := i.db.
		Model(&dbmodels.Variation{}).
		Where("id = ?", row.ID).
		Where("space_id = ?", row.SpaceID).
		Where("status = ?", expected).
		Select("Status",
			"SupplierSignedAt", "SupplierSignerID",
			"CustomerSignedAt", "CustomerSignerID",
			"RejectedAt", "RejectorID", "RejectionReason",
			"AppliedAt").
		Updates(row)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return workflow.ErrConcurrentModification
	}
	return nil
}
