package chainstore

import (
	"time"

	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider - цепочка проверки сущности. Записи только добавляются,
// усечение выполняется при отклонении с возвратом в черновик.
type Provider interface {
	AppendStep(rec workflow.Entity, stage models.WfStatus, actorID string, at time.Time) error
	TruncateChain(rec workflow.Entity) error
	List(spaceID string, kind models.WfKind, entityID string) (list []dbmodels.ValidationStep, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) AppendStep(rec workflow.Entity, stage models.WfStatus, actorID string, at time.Time) error {
	row := dbmodels.ValidationStep{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.GetSpaceID(),
		},
		EntityKind: rec.WorkflowKind(),
		EntityID:   rec.GetID(),
		Stage:      stage,
		ActorID:    actorID,
		ActedAt:    at,
	}
	return i.db.
		Omit("Actor").
		Create(&row).
		Error
}

func (i impl) TruncateChain(rec workflow.Entity) error {
	return i.db.
		Where("space_id = ?", rec.GetSpaceID()).
		Where("entity_kind = ?", rec.WorkflowKind()).
		Where("entity_id = ?", rec.GetID()).
		Delete(&dbmodels.ValidationStep{}).
		Error
}

func (i impl) List(spaceID string, kind models.WfKind, entityID string) ([]dbmodels.ValidationStep, error) {
	list := []dbmodels.ValidationStep{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("entity_kind = ?", kind).
		Where("entity_id = ?", entityID).
		Order("acted_at ASC").
		Preload("Actor").
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
