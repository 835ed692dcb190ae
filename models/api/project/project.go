package projectapimodels

import (
	"time"

	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
)

type ProjectData struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CustomerName string    `json:"customer_name"`
	SupplierName string    `json:"supplier_name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

func (p ProjectData) Validate() error {
	if p.Name == "" {
		return errors.New("не указано название проекта")
	}
	if p.CustomerName == "" {
		return errors.New("не указан заказчик")
	}
	if p.SupplierName == "" {
		return errors.New("не указан исполнитель")
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return errors.New("дата окончания раньше даты начала")
	}
	return nil
}

type ProjectView struct {
	ProjectData
	ID         string          `json:"id"`
	IsActive   bool            `json:"is_active"`
	Milestones []MilestoneItem `json:"milestones,omitempty"`
}

type MilestoneItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"certificate_status,omitempty"`
}

func ProjectConvert(rec dbmodels.Project) ProjectView {
	view := ProjectView{
		ProjectData: ProjectData{
			Name:         rec.Name,
			Description:  rec.Description,
			CustomerName: rec.CustomerName,
			SupplierName: rec.SupplierName,
			StartDate:    rec.StartDate,
			EndDate:      rec.EndDate,
		},
		ID:       rec.ID,
		IsActive: rec.IsActive,
	}
	for _, m := range rec.Milestones {
		item := MilestoneItem{
			ID:   m.ID,
			Name: m.Name,
		}
		if m.Certificate != nil {
			item.Status = m.Certificate.Status.ToHuman()
		}
		view.Milestones = append(view.Milestones, item)
	}
	return view
}
