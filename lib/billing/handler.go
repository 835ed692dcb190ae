package billing

import (
	"pm-tools-backend/db"
	billingstore "pm-tools-backend/lib/billing/store"
	milestonestore "pm-tools-backend/lib/milestone/store"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider начисляет утверждённые факты (часы и стоимость) в зачёт этапа.
// Повторное начисление того же источника не даёт дублей.
type Provider interface {
	RecordTimesheet(rec dbmodels.Timesheet) error
	RecordDeliverable(rec dbmodels.Deliverable) error
	HasActual(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error)
	ListActuals(spaceID, milestoneID string) (list []dbmodels.MilestoneActual, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		actuals: billingstore.NewInstance(db.DB),
		run: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
		stores: func(tx *gorm.DB) (billingstore.Provider, milestonestore.Provider) {
			return billingstore.NewInstance(tx), milestonestore.NewInstance(tx)
		},
	}
}

type impl struct {
	actuals billingstore.Provider
	run     func(fn func(tx *gorm.DB) error) error
	stores  func(tx *gorm.DB) (billingstore.Provider, milestonestore.Provider)
}

func (h impl) RecordTimesheet(rec dbmodels.Timesheet) error {
	actual := dbmodels.MilestoneActual{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.SpaceID,
		},
		MilestoneID: rec.MilestoneID,
		SourceKind:  models.KindTimesheet,
		SourceID:    rec.ID,
		Amount:      rec.Cost(),
		Hours:       rec.Hours,
	}
	return h.record(actual)
}

func (h impl) RecordDeliverable(rec dbmodels.Deliverable) error {
	actual := dbmodels.MilestoneActual{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.SpaceID,
		},
		MilestoneID: rec.MilestoneID,
		SourceKind:  models.KindDeliverable,
		SourceID:    rec.ID,
		Amount:      rec.Cost,
	}
	return h.record(actual)
}

func (h impl) record(actual dbmodels.MilestoneActual) error {
	return h.run(func(tx *gorm.DB) error {
		actualsStore, mStore := h.stores(tx)
		inserted, err := actualsStore.Insert(actual)
		if err != nil {
			return err
		}
		if !inserted {
			// источник уже начислен
			return nil
		}
		return h.recalcMilestone(actualsStore, mStore, actual.SpaceID, actual.MilestoneID)
	})
}

// recalcMilestone пересчитывает агрегаты этапа по фактам, строка этапа
// блокируется на время пересчёта
func (h impl) recalcMilestone(actualsStore billingstore.Provider, mStore milestonestore.Provider, spaceID, milestoneID string) error {
	milestone, err := mStore.GetByIDForUpdate(spaceID, milestoneID)
	if err != nil {
		return errors.Wrap(err, "ошибка чтения этапа")
	}
	if milestone == nil {
		return errors.New("этап не найден")
	}
	amount, hours, err := actualsStore.SumByMilestone(spaceID, milestoneID)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"actual_cost":  amount,
		"actual_hours": hours,
	}
	return mStore.Update(spaceID, milestoneID, updMap)
}

// HasActual - начислен ли уже данный источник
func (h impl) HasActual(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error) {
	has, err := h.actuals.Exists(spaceID, sourceKind, sourceID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка проверки начисления")
	}
	return has, nil
}

func (h impl) ListActuals(spaceID, milestoneID string) ([]dbmodels.MilestoneActual, error) {
	return h.actuals.List(spaceID, milestoneID)
}
