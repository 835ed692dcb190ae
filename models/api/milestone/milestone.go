package milestoneapimodels

import (
	"time"

	"pm-tools-backend/lib/workflow"
	wfapimodels "pm-tools-backend/models/api/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
)

type MilestoneData struct {
	ProjectID         string    `json:"project_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	BaselineBudget    float64   `json:"baseline_budget"`
	BaselineStartDate time.Time `json:"baseline_start_date"`
	BaselineDueDate   time.Time `json:"baseline_due_date"`
}

func (m MilestoneData) Validate() error {
	if m.ProjectID == "" {
		return errors.New("не указан проект")
	}
	if m.Name == "" {
		return errors.New("не указано название этапа")
	}
	if m.BaselineBudget < 0 {
		return errors.New("бюджет этапа не может быть отрицательным")
	}
	if !m.BaselineDueDate.IsZero() && m.BaselineDueDate.Before(m.BaselineStartDate) {
		return errors.New("срок этапа раньше даты начала")
	}
	return nil
}

type MilestoneView struct {
	MilestoneData
	ID          string           `json:"id"`
	ActualCost  float64          `json:"actual_cost"`
	ActualHours float64          `json:"actual_hours"`
	Certificate *CertificateView `json:"certificate,omitempty"`
}

type CertificateView struct {
	ID           string                    `json:"id"`
	Status       string                    `json:"status"`
	StatusHuman  string                    `json:"status_human"`
	CertNumber   string                    `json:"cert_number,omitempty"`
	Comment      string                    `json:"comment,omitempty"`
	Signatures   wfapimodels.SignatureView `json:"signatures"`
	AppliedAt    *time.Time                `json:"applied_at,omitempty"`
	HasFile      bool                      `json:"has_file"`
	Capabilities workflow.Capabilities     `json:"capabilities"`
}

func MilestoneConvert(rec dbmodels.Milestone) MilestoneView {
	return MilestoneView{
		MilestoneData: MilestoneData{
			ProjectID:         rec.ProjectID,
			Name:              rec.Name,
			Description:       rec.Description,
			BaselineBudget:    rec.BaselineBudget,
			BaselineStartDate: rec.BaselineStartDate,
			BaselineDueDate:   rec.BaselineDueDate,
		},
		ID:          rec.ID,
		ActualCost:  rec.ActualCost,
		ActualHours: rec.ActualHours,
	}
}

func CertificateConvert(rec dbmodels.MilestoneCertificate, caps workflow.Capabilities) CertificateView {
	return CertificateView{
		ID:           rec.ID,
		Status:       string(rec.Status),
		StatusHuman:  rec.Status.ToHuman(),
		CertNumber:   rec.CertNumber,
		Comment:      rec.Comment,
		Signatures:   wfapimodels.SignatureConvert(rec.SignaturePair),
		AppliedAt:    rec.AppliedAt,
		HasFile:      rec.FileID != nil,
		Capabilities: caps,
	}
}

type MilestoneFilter struct {
	ProjectID string `json:"project_id"`
}

func (f MilestoneFilter) Validate() error {
	return nil
}

type ActualView struct {
	ID         string    `json:"id"`
	SourceKind string    `json:"source_kind"`
	SourceID   string    `json:"source_id"`
	Amount     float64   `json:"amount"`
	Hours      float64   `json:"hours"`
	CreatedAt  time.Time `json:"created_at"`
}

func ActualConvert(rec dbmodels.MilestoneActual) ActualView {
	return ActualView{
		ID:         rec.ID,
		SourceKind: rec.SourceKind.ToHuman(),
		SourceID:   rec.SourceID,
		Amount:     rec.Amount,
		Hours:      rec.Hours,
		CreatedAt:  rec.CreatedAt,
	}
}
