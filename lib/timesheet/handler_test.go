package timesheethandler

import (
	"testing"

	"pm-tools-backend/lib/billing"
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type memBilling struct {
	has        bool
	hasErr     error
	hasCalls   int
	timesheets []string
}

func (m *memBilling) RecordTimesheet(rec dbmodels.Timesheet) error {
	m.timesheets = append(m.timesheets, rec.ID)
	return nil
}

func (m *memBilling) RecordDeliverable(rec dbmodels.Deliverable) error { return nil }

func (m *memBilling) HasActual(spaceID string, sourceKind models.WfKind, sourceID string) (bool, error) {
	m.hasCalls++
	return m.has, m.hasErr
}

func (m *memBilling) ListActuals(spaceID, milestoneID string) ([]dbmodels.MilestoneActual, error) {
	return nil, nil
}

func withFakeBilling(t *testing.T, fake *memBilling) {
	prev := billing.Instance
	billing.Instance = fake
	t.Cleanup(func() { billing.Instance = prev })
}

func approvedTimesheet() *dbmodels.Timesheet {
	ts := &dbmodels.Timesheet{
		MilestoneID: "m-1",
		Hours:       8,
		Rate:        3000,
		Status:      models.ChainStatusApproved,
	}
	ts.ID = "ts-1"
	ts.SpaceID = "space-1"
	return ts
}

func TestEnsureBilled(t *testing.T) {
	t.Run("утверждённый табель без начисления доначисляется", func(t *testing.T) {
		fake := &memBilling{}
		withFakeBilling(t, fake)

		impl{}.ensureBilled(approvedTimesheet())

		require.Equal(t, []string{"ts-1"}, fake.timesheets)
	})

	t.Run("уже начисленный табель не трогается", func(t *testing.T) {
		fake := &memBilling{has: true}
		withFakeBilling(t, fake)

		impl{}.ensureBilled(approvedTimesheet())

		require.Empty(t, fake.timesheets)
	})

	t.Run("неутверждённый табель не начисляется", func(t *testing.T) {
		fake := &memBilling{}
		withFakeBilling(t, fake)

		ts := approvedTimesheet()
		ts.Status = models.ChainStatusSubmitted
		impl{}.ensureBilled(ts)

		require.Equal(t, 0, fake.hasCalls)
		require.Empty(t, fake.timesheets)
	})
}

func TestApprovedHook(t *testing.T) {
	t.Run("хук утверждения начисляет табель", func(t *testing.T) {
		fake := &memBilling{}
		withFakeBilling(t, fake)

		ts := approvedTimesheet()
		err := approvedHook(ts, models.ChainStatusValidated, models.ChainStatusApproved, workflow.Actor{UserID: "u-1"})
		require.Nil(t, err)
		require.Equal(t, []string{"ts-1"}, fake.timesheets)
	})
}
