package dbmodels

import (
	"pm-tools-backend/models"
	"time"
)

type Milestone struct {
	BaseSpaceModel
	ProjectID   string `gorm:"type:varchar(36);index"`
	Project     *Project
	Name        string `gorm:"type:varchar(255)"`
	Description string
	// Базовый план (защищён от прямых правок, меняется только применением
	// согласованного запроса на изменение)
	BaselineBudget    float64
	BaselineStartDate time.Time
	BaselineDueDate   time.Time
	ActualCost        float64 // сумма утверждённых фактов
	ActualHours       float64
	Certificate       *MilestoneCertificate `gorm:"foreignKey:MilestoneID"`
}

// MilestoneCertificate - акт приёмки этапа, подписывается обеими сторонами
type MilestoneCertificate struct {
	BaseSpaceModel
	MilestoneID string `gorm:"type:varchar(36);uniqueIndex"`
	Status      models.WfStatus `gorm:"type:varchar(50);index"`
	SignaturePair
	Comment    string // причина возврата на доработку
	CertNumber string `gorm:"type:varchar(50)"`
	AppliedAt  *time.Time
	FileID     *string `gorm:"type:varchar(36)"` // PDF акта в файловом хранилище
}

func (c MilestoneCertificate) GetID() string {
	return c.ID
}

func (c MilestoneCertificate) GetSpaceID() string {
	return c.SpaceID
}

func (c MilestoneCertificate) WorkflowKind() models.WfKind {
	return models.KindMilestoneCertificate
}

func (c MilestoneCertificate) WorkflowStatus() models.WfStatus {
	return c.Status
}

func (c *MilestoneCertificate) SetWorkflowStatus(status models.WfStatus) {
	c.Status = status
}

func (c *MilestoneCertificate) Signatures() *SignaturePair {
	return &c.SignaturePair
}

func (c *MilestoneCertificate) SetWorkflowComment(comment string) {
	c.Comment = comment
}
