package deliverableapimodels

import (
	"time"

	"pm-tools-backend/lib/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
)

type DeliverableData struct {
	ProjectID   string  `json:"project_id"`
	MilestoneID string  `json:"milestone_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

func (d DeliverableData) Validate() error {
	if d.ProjectID == "" {
		return errors.New("не указан проект")
	}
	if d.MilestoneID == "" {
		return errors.New("не указан этап")
	}
	if d.Name == "" {
		return errors.New("не указано название результата")
	}
	if d.Cost < 0 {
		return errors.New("стоимость не может быть отрицательной")
	}
	return nil
}

type DeliverableView struct {
	DeliverableData
	ID            string                `json:"id"`
	AuthorName    string                `json:"author_name"`
	MilestoneName string                `json:"milestone_name"`
	Status        string                `json:"status"`
	StatusHuman   string                `json:"status_human"`
	HasFile       bool                  `json:"has_file"`
	DeliveredAt   *time.Time            `json:"delivered_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	Capabilities  workflow.Capabilities `json:"capabilities"`
}

func DeliverableConvert(rec dbmodels.Deliverable, caps workflow.Capabilities) DeliverableView {
	authorName := ""
	if rec.Author != nil {
		authorName = rec.Author.GetFullName()
	}
	milestoneName := ""
	if rec.Milestone != nil {
		milestoneName = rec.Milestone.Name
	}
	return DeliverableView{
		DeliverableData: DeliverableData{
			ProjectID:   rec.ProjectID,
			MilestoneID: rec.MilestoneID,
			Name:        rec.Name,
			Description: rec.Description,
			Cost:        rec.Cost,
		},
		ID:            rec.ID,
		AuthorName:    authorName,
		MilestoneName: milestoneName,
		Status:        string(rec.Status),
		StatusHuman:   rec.Status.ToHuman(),
		HasFile:       rec.FileID != nil,
		DeliveredAt:   rec.DeliveredAt,
		CreatedAt:     rec.CreatedAt,
		Capabilities:  caps,
	}
}

type DeliverableFilter struct {
	ProjectID   string   `json:"project_id"`
	MilestoneID string   `json:"milestone_id"`
	Statuses    []string `json:"statuses"`
}

func (d DeliverableFilter) Validate() error {
	return nil
}
