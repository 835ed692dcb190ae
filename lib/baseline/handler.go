package baseline

import (
	milestonestore "pm-tools-backend/lib/milestone/store"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider применяет согласованные изменения к базовому плану этапа.
// Базовый план меняется только здесь, прямые правки запрещены.
type Provider interface {
	ApplyVariation(tx *gorm.DB, rec *dbmodels.Variation) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		stores: func(tx *gorm.DB) milestonestore.Provider {
			return milestonestore.NewInstance(tx)
		},
	}
}

type impl struct {
	stores func(tx *gorm.DB) milestonestore.Provider
}

// ApplyVariation накладывает дельты запроса на базовый план этапа.
// Вызывается в транзакции перехода APPROVED -> APPLIED: однократность
// применения гарантирует условная фиксация статуса.
func (h impl) ApplyVariation(tx *gorm.DB, rec *dbmodels.Variation) error {
	mStore := h.stores(tx)
	milestone, err := mStore.GetByIDForUpdate(rec.SpaceID, rec.MilestoneID)
	if err != nil {
		return errors.Wrap(err, "ошибка чтения этапа")
	}
	if milestone == nil {
		return errors.New("этап запроса на изменение не найден")
	}
	updMap := map[string]interface{}{
		"baseline_budget":   milestone.BaselineBudget + rec.BudgetDelta,
		"baseline_due_date": milestone.BaselineDueDate.AddDate(0, 0, rec.DueDateShiftDays),
	}
	err = mStore.Update(rec.SpaceID, milestone.ID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка применения изменения к базовому плану")
	}
	return nil
}
