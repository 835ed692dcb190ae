package deliverablehandler

import (
	"testing"

	"pm-tools-backend/lib/billing"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type memBilling struct {
	has          bool
	hasCalls     int
	deliverables []string
}

func (m *memBilling) RecordTimesheet(rec dbmodels.Timesheet) error { return nil }

func (m *memBilling) RecordDeliverable(rec dbmodels.Deliverable) error {
	m.deliverables = append(m.deliverables, rec.ID)
	return nil
}

func (m *memBilling) HasActual(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error) {
	m.hasCalls++
	return m.has, nil
}

func (m *memBilling) ListActuals(spaceID, milestoneID string) ([]dbmodels.MilestoneActual, error) {
	return nil, nil
}

func withFakeBilling(t *testing.T, fake *memBilling) {
	prev := billing.Instance
	billing.Instance = fake
	t.Cleanup(func() { billing.Instance = prev })
}

func testDeliverable(status models.WfStatus) *dbmodels.Deliverable {
	d := &dbmodels.Deliverable{
		MilestoneID: "m-1",
		Cost:        50000,
		Status:      status,
	}
	d.ID = "d-1"
	d.SpaceID = "space-1"
	return d
}

func TestEnsureBilled(t *testing.T) {
	t.Run("утверждённый результат без начисления доначисляется", func(t *testing.T) {
		fake := &memBilling{}
		withFakeBilling(t, fake)

		impl{}.ensureBilled(testDeliverable(models.ChainStatusApproved))

		require.Equal(t, []string{"d-1"}, fake.deliverables)
	})

	t.Run("переданный результат тоже проверяется на начисление", func(t *testing.T) {
		fake := &memBilling{}
		withFakeBilling(t, fake)

		impl{}.ensureBilled(testDeliverable(models.ChainStatusDelivered))

		require.Equal(t, []string{"d-1"}, fake.deliverables)
	})

	t.Run("уже начисленный результат не трогается", func(t *testing.T) {
		fake := &memBilling{has: true}
		withFakeBilling(t, fake)

		impl{}.ensureBilled(testDeliverable(models.ChainStatusApproved))

		require.Empty(t, fake.deliverables)
	})

	t.Run("черновик не начисляется", func(t *testing.T) {
		fake := &memBilling{}
		withFakeBilling(t, fake)

		impl{}.ensureBilled(testDeliverable(models.ChainStatusDraft))

		require.Equal(t, 0, fake.hasCalls)
		require.Empty(t, fake.deliverables)
	})
}
