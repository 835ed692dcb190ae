package baseline

import (
	"testing"
	"time"

	milestonestore "pm-tools-backend/lib/milestone/store"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memMilestones struct {
	rec     *dbmodels.Milestone
	updates []map[string]interface{}
}

func (m *memMilestones) Create(rec dbmodels.Milestone) (string, error) { return "", nil }

func (m *memMilestones) GetByID(spaceID, id string) (*dbmodels.Milestone, error) {
	return m.rec, nil
}

func (m *memMilestones) GetByIDForUpdate(spaceID, id string) (*dbmodels.Milestone, error) {
	return m.rec, nil
}

func (m *memMilestones) Update(spaceID, id string, updMap map[string]interface{}) error {
	m.updates = append(m.updates, updMap)
	return nil
}

func (m *memMilestones) Delete(spaceID, id string) error { return nil }

func (m *memMilestones) List(spaceID, projectID string) ([]dbmodels.Milestone, error) {
	return nil, nil
}

func newBaseline(milestones *memMilestones) impl {
	return impl{
		stores: func(tx *gorm.DB) milestonestore.Provider {
			return milestones
		},
	}
}

func testVariation(budgetDelta float64, shiftDays int) *dbmodels.Variation {
	v := &dbmodels.Variation{
		MilestoneID:      "m-1",
		BudgetDelta:      budgetDelta,
		DueDateShiftDays: shiftDays,
	}
	v.ID = "var-1"
	v.SpaceID = "space-1"
	return v
}

func TestApplyVariation(t *testing.T) {
	dueDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("дельты накладываются на базовый план", func(t *testing.T) {
		milestone := &dbmodels.Milestone{
			BaselineBudget:  500000,
			BaselineDueDate: dueDate,
		}
		milestone.ID = "m-1"
		milestone.SpaceID = "space-1"
		milestones := &memMilestones{rec: milestone}
		h := newBaseline(milestones)

		require.Nil(t, h.ApplyVariation(nil, testVariation(150000, 14)))

		require.Len(t, milestones.updates, 1)
		require.Equal(t, 650000.0, milestones.updates[0]["baseline_budget"])
		require.Equal(t, dueDate.AddDate(0, 0, 14), milestones.updates[0]["baseline_due_date"])
	})

	t.Run("отрицательные дельты уменьшают бюджет и сдвигают срок назад", func(t *testing.T) {
		milestone := &dbmodels.Milestone{
			BaselineBudget:  500000,
			BaselineDueDate: dueDate,
		}
		milestone.ID = "m-1"
		milestone.SpaceID = "space-1"
		milestones := &memMilestones{rec: milestone}
		h := newBaseline(milestones)

		require.Nil(t, h.ApplyVariation(nil, testVariation(-100000, -7)))

		require.Equal(t, 400000.0, milestones.updates[0]["baseline_budget"])
		require.Equal(t, dueDate.AddDate(0, 0, -7), milestones.updates[0]["baseline_due_date"])
	})

	t.Run("без этапа применение не проходит", func(t *testing.T) {
		milestones := &memMilestones{}
		h := newBaseline(milestones)

		err := h.ApplyVariation(nil, testVariation(1000, 1))
		require.NotNil(t, err)
		require.Empty(t, milestones.updates)
	})
}
