package milestonestore

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Milestone) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Milestone, err error)
	GetByIDForUpdate(spaceID, id string) (rec *dbmodels.Milestone, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Delete(spaceID, id string) error
	List(spaceID, projectID string) (list []dbmodels.Milestone, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Milestone) (id string, err error) {
	err = i.db.
		Omit("Project", "Certificate").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Milestone, error) {
	return i.getByID(i.db, spaceID, id)
}

// GetByIDForUpdate читает этап с блокировкой строки, вызывается только
// внутри транзакции (применение изменения, пересчёт фактов)
func (i impl) GetByIDForUpdate(spaceID, id string) (*dbmodels.Milestone, error) {
	return i.getByID(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) getByID(tx *gorm.DB, spaceID, id string) (*dbmodels.Milestone, error) {
	rec := dbmodels.Milestone{}
	err := tx.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Certificate").
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
		Model(&dbmodels.Milestone{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) Delete(spaceID, id string) error {
	rec := dbmodels.Milestone{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   spaceID,
		},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(spaceID, projectID string) ([]dbmodels.Milestone, error) {
	list := []dbmodels.Milestone{}
	tx := i.db.
		Where("space_id = ?", spaceID).
		Order("baseline_due_date ASC").
		Preload("Certificate")
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
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
