package dbmodels

import (
	"pm-tools-backend/models"
	"time"
)

// Deliverable - результат работ по этапу
type Deliverable struct {
	BaseSpaceModel
	ProjectID   string `gorm:"type:varchar(36);index"`
	Project     *Project
	MilestoneID string `gorm:"type:varchar(36);index"`
	Milestone   *Milestone
	AuthorID    string     `gorm:"type:varchar(36)"`
	Author      *SpaceUser `gorm:"foreignKey:AuthorID"`
	Name        string     `gorm:"type:varchar(255)"`
	Description string
	Cost        float64
	FileID      *string `gorm:"type:varchar(36)"` // вложение в файловом хранилище
	Status      models.WfStatus `gorm:"type:varchar(50);index"`
	DeliveredAt *time.Time
}

func (d Deliverable) GetID() string {
	return d.ID
}

func (d Deliverable) GetSpaceID() string {
	return d.SpaceID
}

func (d Deliverable) WorkflowKind() models.WfKind {
	return models.KindDeliverable
}

func (d Deliverable) WorkflowStatus() models.WfStatus {
	return d.Status
}

func (d *Deliverable) SetWorkflowStatus(status models.WfStatus) {
	d.Status = status
}

func (d Deliverable) GetAuthorID() string {
	return d.AuthorID
}
