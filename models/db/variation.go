package dbmodels

import (
	"pm-tools-backend/models"
	"time"
)

// Variation - запрос на изменение базового плана этапа
type Variation struct {
	BaseSpaceModel
	ProjectID   string `gorm:"type:varchar(36);index"`
	Project     *Project
	MilestoneID string `gorm:"type:varchar(36);index"`
	Milestone   *Milestone
	AuthorID    string     `gorm:"type:varchar(36)"`
	Author      *SpaceUser `gorm:"foreignKey:AuthorID"`
	Name        string     `gorm:"type:varchar(255)"`
	Description string
	// Дельты к базовому плану, применяются при переходе в APPLIED
	BudgetDelta      float64
	DueDateShiftDays int
	Status           models.WfStatus `gorm:"type:varchar(50);index"`
	SignaturePair
	RejectionRecord
	AppliedAt *time.Time
}

func (v Variation) GetID() string {
	return v.ID
}

func (v Variation) GetSpaceID() string {
	return v.SpaceID
}

func (v Variation) WorkflowKind() models.WfKind {
	return models.KindVariation
}

func (v Variation) WorkflowStatus() models.WfStatus {
	return v.Status
}

func (v *Variation) SetWorkflowStatus(status models.WfStatus) {
	v.Status = status
}

func (v *Variation) Signatures() *SignaturePair {
	return &v.SignaturePair
}

func (v *Variation) Rejection() *RejectionRecord {
	return &v.RejectionRecord
}

func (v Variation) GetAuthorID() string {
	return v.AuthorID
}
