package dbmodels

import (
	"pm-tools-backend/models"
	"time"
)

// Timesheet - табель учёта часов, одиночная цепочка проверки
// (подача -> проверка -> утверждение)
type Timesheet struct {
	BaseSpaceModel
	ProjectID   string `gorm:"type:varchar(36);index"`
	Project     *Project
	MilestoneID string `gorm:"type:varchar(36);index"`
	Milestone   *Milestone
	AuthorID    string     `gorm:"type:varchar(36)"`
	Author      *SpaceUser `gorm:"foreignKey:AuthorID"`
	PeriodStart time.Time
	PeriodEnd   time.Time
	Hours       float64
	Rate        float64
	Comment     string
	Status      models.WfStatus `gorm:"type:varchar(50);index"`
}

func (t Timesheet) GetID() string {
	return t.ID
}

func (t Timesheet) GetSpaceID() string {
	return t.SpaceID
}

func (t Timesheet) WorkflowKind() models.WfKind {
	return models.KindTimesheet
}

func (t Timesheet) WorkflowStatus() models.WfStatus {
	return t.Status
}

func (t *Timesheet) SetWorkflowStatus(status models.WfStatus) {
	t.Status = status
}

func (t Timesheet) GetAuthorID() string {
	return t.AuthorID
}

func (t Timesheet) Cost() float64 {
	return t.Hours * t.Rate
}
