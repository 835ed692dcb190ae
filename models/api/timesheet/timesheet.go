package timesheetapimodels

import (
	"time"

	"pm-tools-backend/lib/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
)

type TimesheetData struct {
	ProjectID   string    `json:"project_id"`
	MilestoneID string    `json:"milestone_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Hours       float64   `json:"hours"`
	Rate        float64   `json:"rate"`
	Comment     string    `json:"comment"`
}

func (t TimesheetData) Validate() error {
	if t.ProjectID == "" {
		return errors.New("не указан проект")
	}
	if t.MilestoneID == "" {
		return errors.New("не указан этап")
	}
	if t.PeriodStart.IsZero() || t.PeriodEnd.IsZero() {
		return errors.New("не указан период")
	}
	if t.PeriodEnd.Before(t.PeriodStart) {
		return errors.New("окончание периода раньше начала")
	}
	if t.Hours <= 0 {
		return errors.New("не указаны часы")
	}
	if t.Rate < 0 {
		return errors.New("ставка не может быть отрицательной")
	}
	return nil
}

type TimesheetView struct {
	TimesheetData
	ID            string                `json:"id"`
	AuthorName    string                `json:"author_name"`
	MilestoneName string                `json:"milestone_name"`
	Cost          float64               `json:"cost"`
	Status        string                `json:"status"`
	StatusHuman   string                `json:"status_human"`
	CreatedAt     time.Time             `json:"created_at"`
	Capabilities  workflow.Capabilities `json:"capabilities"`
}

func TimesheetConvert(rec dbmodels.Timesheet, caps workflow.Capabilities) TimesheetView {
	authorName := ""
	if rec.Author != nil {
		authorName = rec.Author.GetFullName()
	}
	milestoneName := ""
	if rec.Milestone != nil {
		milestoneName = rec.Milestone.Name
	}
	return TimesheetView{
		TimesheetData: TimesheetData{
			ProjectID:   rec.ProjectID,
			MilestoneID: rec.MilestoneID,
			PeriodStart: rec.PeriodStart,
			PeriodEnd:   rec.PeriodEnd,
			Hours:       rec.Hours,
			Rate:        rec.Rate,
			Comment:     rec.Comment,
		},
		ID:            rec.ID,
		AuthorName:    authorName,
		MilestoneName: milestoneName,
		Cost:          rec.Cost(),
		Status:        string(rec.Status),
		StatusHuman:   rec.Status.ToHuman(),
		CreatedAt:     rec.CreatedAt,
		Capabilities:  caps,
	}
}

type TimesheetFilter struct {
	ProjectID   string     `json:"project_id"`
	MilestoneID string     `json:"milestone_id"`
	AuthorID    string     `json:"author_id"`
	Statuses    []string   `json:"statuses"`
	PeriodFrom  *time.Time `json:"period_from"`
	PeriodTo    *time.Time `json:"period_to"`
}

func (t TimesheetFilter) Validate() error {
	if t.PeriodFrom != nil && t.PeriodTo != nil && t.PeriodTo.Before(*t.PeriodFrom) {
		return errors.New("окончание периода раньше начала")
	}
	return nil
}
