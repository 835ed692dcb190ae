package variationapimodels

import (
	"time"

	"pm-tools-backend/lib/workflow"
	wfapimodels "pm-tools-backend/models/api/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
)

type VariationData struct {
	ProjectID        string  `json:"project_id"`
	MilestoneID      string  `json:"milestone_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	BudgetDelta      float64 `json:"budget_delta"`
	DueDateShiftDays int     `json:"due_date_shift_days"`
}

func (v VariationData) Validate() error {
	if v.ProjectID == "" {
		return errors.New("не указан проект")
	}
	if v.MilestoneID == "" {
		return errors.New("не указан этап")
	}
	if v.Name == "" {
		return errors.New("не указано название запроса")
	}
	if v.BudgetDelta == 0 && v.DueDateShiftDays == 0 {
		return errors.New("запрос не меняет ни бюджет, ни срок")
	}
	return nil
}

type VariationView struct {
	VariationData
	ID              string                    `json:"id"`
	AuthorName      string                    `json:"author_name"`
	MilestoneName   string                    `json:"milestone_name"`
	Status          string                    `json:"status"`
	StatusHuman     string                    `json:"status_human"`
	Signatures      wfapimodels.SignatureView `json:"signatures"`
	RejectedAt      *time.Time                `json:"rejected_at,omitempty"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
	AppliedAt       *time.Time                `json:"applied_at,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	Capabilities    workflow.Capabilities     `json:"capabilities"`
}

func VariationConvert(rec dbmodels.Variation, caps workflow.Capabilities) VariationView {
	authorName := ""
	if rec.Author != nil {
		authorName = rec.Author.GetFullName()
	}
	milestoneName := ""
	if rec.Milestone != nil {
		milestoneName = rec.Milestone.Name
	}
	return VariationView{
		VariationData: VariationData{
			ProjectID:        rec.ProjectID,
			MilestoneID:      rec.MilestoneID,
			Name:             rec.Name,
			Description:      rec.Description,
			BudgetDelta:      rec.BudgetDelta,
			DueDateShiftDays: rec.DueDateShiftDays,
		},
		ID:              rec.ID,
		AuthorName:      authorName,
		MilestoneName:   milestoneName,
		Status:          string(rec.Status),
		StatusHuman:     rec.Status.ToHuman(),
		Signatures:      wfapimodels.SignatureConvert(rec.SignaturePair),
		RejectedAt:      rec.RejectedAt,
		RejectionReason: rec.RejectionReason,
		AppliedAt:       rec.AppliedAt,
		CreatedAt:       rec.CreatedAt,
		Capabilities:    caps,
	}
}

type VariationFilter struct {
	ProjectID   string   `json:"project_id"`
	MilestoneID string   `json:"milestone_id"`
	Statuses    []string `json:"statuses"`
}

func (v VariationFilter) Validate() error {
	return nil
}
