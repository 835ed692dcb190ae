package deliverablestore

import (
	"time"

	chainstore "pm-tools-backend/lib/workflow/chain-store"
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Deliverable) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Deliverable, err error)
	GetByIDForUpdate(spaceID, id string) (rec *dbmodels.Deliverable, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Delete(spaceID, id string) error
	List(spaceID string, filter Filter) (list []dbmodels.Deliverable, err error)
	Save(rec workflow.Entity, expected models.WfStatus) error
	AppendStep(rec workflow.Entity, stage models.WfStatus, actorID string, at time.Time) error
	TruncateChain(rec workflow.Entity) error
}

type Filter struct {
	ProjectID   string
	MilestoneID string
	Statuses    []models.WfStatus
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db:    DB,
		chain: chainstore.NewInstance(DB),
	}
}

type impl struct {
	db    *gorm.DB
	chain chainstore.Provider
}

func (i impl) Create(rec dbmodels.Deliverable) (id string, err error) {
	err = i.db.
		Omit("Project", "Milestone", "Author").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Deliverable, error) {
	return i.getByID(i.db, spaceID, id)
}

func (i impl) GetByIDForUpdate(spaceID, id string) (*dbmodels.Deliverable, error) {
	return i.getByID(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) getByID(tx *gorm.DB, spaceID, id string) (*dbmodels.Deliverable, error) {
	rec := dbmodels.Deliverable{}
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
		Model(&dbmodels.Deliverable{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) Delete(spaceID, id string) error {
	rec := dbmodels.Deliverable{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   spaceID,
		},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(spaceID string, filter Filter) ([]dbmodels.Deliverable, error) {
	list := []dbmodels.Deliverable{}
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

func (i impl) Save(rec workflow.Entity, expected models.WfStatus) error {
	row, ok := rec.(*dbmodels.Deliverable)
	if !ok {
		return errors.Errorf("неожиданный тип записи %T", rec)
	}
	tx := i.db.
		Model(&dbmodels.Deliverable{}).
		Where("id = ?", row.ID).
		Where("space_id = ?", row.SpaceID).
		Where("status = ?", expected).
		Select("Status", "DeliveredAt").
		Updates(row)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return workflow.ErrConcurrentModification
	}
	return nil
}

func (i impl) AppendStep(rec workflow.Entity, stage models.WfStatus, actorID string, at time.Time) error {
	return i.chain.AppendStep(rec, stage, actorID, at)
}

func (i impl) TruncateChain(rec workflow.Entity) error {
	return i.chain.TruncateChain(rec)
}
