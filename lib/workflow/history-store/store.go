package wfhistorystore

import (
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	workflow.HistoryRecorder
	List(spaceID string, kind models.WfKind, entityID string) (list []dbmodels.WorkflowHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Record пишет запись журнала переходов. Ошибка записи журналируется и
// не прерывает уже выполненный переход.
func (i impl) Record(rec workflow.Entity, action models.WfAction, from, to models.WfStatus, actor workflow.Actor, comment string) {
	row := dbmodels.WorkflowHistory{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.GetSpaceID(),
		},
		EntityKind: rec.WorkflowKind(),
		EntityID:   rec.GetID(),
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.UserID,
		Comment:    comment,
	}
	err := i.db.
		Omit("Actor").
		Create(&row).
		Error
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", rec.GetSpaceID()).
			WithField("entity_kind", rec.WorkflowKind()).
			WithField("entity_id", rec.GetID()).
			Error("ошибка записи журнала переходов")
	}
}

func (i impl) List(spaceID string, kind models.WfKind, entityID string) ([]dbmodels.WorkflowHistory, error) {
	list := []dbmodels.WorkflowHistory{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("entity_kind = ?", kind).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
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
