package dbmodels

import (
	"pm-tools-backend/models"
)

// WorkflowHistory - журнал переходов статусов
type WorkflowHistory struct {
	BaseSpaceModel
	EntityKind models.WfKind   `gorm:"type:varchar(50);index:idx_wf_entity"`
	EntityID   string          `gorm:"type:varchar(36);index:idx_wf_entity"`
	Action     models.WfAction `gorm:"type:varchar(50)"`
	FromStatus models.WfStatus `gorm:"type:varchar(50)"`
	ToStatus   models.WfStatus `gorm:"type:varchar(50)"`
	ActorID    string          `gorm:"type:varchar(36)"`
	Actor      *SpaceUser      `gorm:"foreignKey:ActorID"`
	Comment    string
	Changes    EntityChanges `gorm:"type:jsonb"`
}
