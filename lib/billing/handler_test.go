package billing

import (
	"fmt"
	"testing"

	billingstore "pm-tools-backend/lib/billing/store"
	milestonestore "pm-tools-backend/lib/milestone/store"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memActuals struct {
	rows    map[string]dbmodels.MilestoneActual
	inserts int
}

func newMemActuals() *memActuals {
	return &memActuals{rows: map[string]dbmodels.MilestoneActual{}}
}

func sourceKey(kind models.WfKind, sourceID string) string {
	return fmt.Sprintf("%s/%s", kind, sourceID)
}

func (m *memActuals) Insert(actual dbmodels.MilestoneActual) (bool, error) {
	key := sourceKey(actual.SourceKind, actual.SourceID)
	if _, ok := m.rows[key]; ok {
		return false, nil
	}
	m.rows[key] = actual
	m.inserts++
	return true, nil
}

func (m *memActuals) Exists(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error) {
	_, ok := m.rows[sourceKey(sourceKind, sourceID)]
	return ok, nil
}

func (m *memActuals) SumByMilestone(spaceID, milestoneID string) (amount, hours float64, err error) {
	for _, row := range m.rows {
		if row.MilestoneID != milestoneID {
			continue
		}
		amount += row.Amount
		hours += row.Hours
	}
	return amount, hours, nil
}

func (m *memActuals) List(spaceID, milestoneID string) ([]dbmodels.MilestoneActual, error) {
	list := []dbmodels.MilestoneActual{}
	for _, row := range m.rows {
		if row.MilestoneID == milestoneID {
			list = append(list, row)
		}
	}
	return list, nil
}

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

func newBilling(actuals *memActuals, milestones *memMilestones) impl {
	return impl{
		actuals: actuals,
		run: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
		stores: func(tx *gorm.DB) (billingstore.Provider, milestonestore.Provider) {
			return actuals, milestones
		},
	}
}

func testTimesheet(id string, hours, rate float64) dbmodels.Timesheet {
	ts := dbmodels.Timesheet{
		MilestoneID: "m-1",
		Hours:       hours,
		Rate:        rate,
		Status:      models.ChainStatusApproved,
	}
	ts.ID = id
	ts.SpaceID = "space-1"
	return ts
}

func testMilestone() *dbmodels.Milestone {
	m := &dbmodels.Milestone{}
	m.ID = "m-1"
	m.SpaceID = "space-1"
	return m
}

func TestRecordActual(t *testing.T) {
	t.Run("повторное начисление табеля не даёт дубля и не пересчитывает этап", func(t *testing.T) {
		actuals := newMemActuals()
		milestones := &memMilestones{rec: testMilestone()}
		h := newBilling(actuals, milestones)
		ts := testTimesheet("ts-1", 10, 2500)

		require.Nil(t, h.RecordTimesheet(ts))
		require.Nil(t, h.RecordTimesheet(ts))

		require.Equal(t, 1, actuals.inserts)
		require.Len(t, milestones.updates, 1)
		require.Equal(t, 25000.0, milestones.updates[0]["actual_cost"])
		require.Equal(t, 10.0, milestones.updates[0]["actual_hours"])
	})

	t.Run("факты табелей и результатов суммируются по этапу", func(t *testing.T) {
		actuals := newMemActuals()
		milestones := &memMilestones{rec: testMilestone()}
		h := newBilling(actuals, milestones)

		require.Nil(t, h.RecordTimesheet(testTimesheet("ts-1", 8, 3000)))
		deliverable := dbmodels.Deliverable{
			MilestoneID: "m-1",
			Cost:        100000,
			Status:      models.ChainStatusApproved,
		}
		deliverable.ID = "d-1"
		deliverable.SpaceID = "space-1"
		require.Nil(t, h.RecordDeliverable(deliverable))

		require.Len(t, milestones.updates, 2)
		last := milestones.updates[1]
		require.Equal(t, 124000.0, last["actual_cost"])
		require.Equal(t, 8.0, last["actual_hours"])
	})

	t.Run("HasActual видит начисленный источник", func(t *testing.T) {
		actuals := newMemActuals()
		milestones := &memMilestones{rec: testMilestone()}
		h := newBilling(actuals, milestones)

		has, err := h.HasActual("space-1", models.KindTimesheet, "ts-1")
		require.Nil(t, err)
		require.False(t, has)

		require.Nil(t, h.RecordTimesheet(testTimesheet("ts-1", 4, 1000)))

		has, err = h.HasActual("space-1", models.KindTimesheet, "ts-1")
		require.Nil(t, err)
		require.True(t, has)
	})

	t.Run("без этапа начисление не проходит", func(t *testing.T) {
		actuals := newMemActuals()
		milestones := &memMilestones{}
		h := newBilling(actuals, milestones)

		err := h.RecordTimesheet(testTimesheet("ts-1", 4, 1000))
		require.NotNil(t, err)
		require.Empty(t, milestones.updates)
	})
}
