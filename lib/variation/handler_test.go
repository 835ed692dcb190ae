package variationhandler

import (
	"testing"
	"time"

	variationstore "pm-tools-backend/lib/variation/store"
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memVariations struct {
	rec    *dbmodels.Variation
	getErr error
}

func (m *memVariations) Create(rec dbmodels.Variation) (string, error) { return "", nil }

func (m *memVariations) GetByID(spaceID, id string) (*dbmodels.Variation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.rec, nil
}

func (m *memVariations) GetByIDForUpdate(spaceID, id string) (*dbmodels.Variation, error) {
	return m.rec, nil
}

func (m *memVariations) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }

func (m *memVariations) Delete(spaceID, id string) error { return nil }

func (m *memVariations) List(spaceID string, filter variationstore.Filter) ([]dbmodels.Variation, error) {
	return nil, nil
}

func (m *memVariations) Save(rec workflow.Entity, expected models.WfStatus) error { return nil }

func testVariation(status models.WfStatus) *dbmodels.Variation {
	v := &dbmodels.Variation{Status: status}
	v.ID = "var-1"
	v.SpaceID = "space-1"
	return v
}

func TestFreshAfterApprove(t *testing.T) {
	t.Run("после согласования отдаётся актуальное состояние", func(t *testing.T) {
		applied := testVariation(models.VariationStatusApplied)
		now := time.Now()
		applied.AppliedAt = &now
		i := impl{store: &memVariations{rec: applied}}

		got := i.freshAfterApprove(testVariation(models.VariationStatusApproved), models.VariationStatusApproved)

		require.Equal(t, models.VariationStatusApplied, got.Status)
		require.NotNil(t, got.AppliedAt)
	})

	t.Run("прочие переходы не перечитываются", func(t *testing.T) {
		i := impl{store: &memVariations{rec: testVariation(models.VariationStatusApplied)}}
		rec := testVariation(models.VariationStatusSubmitted)

		got := i.freshAfterApprove(rec, models.VariationStatusSubmitted)

		require.Same(t, rec, got)
	})

	t.Run("ошибка перечитывания не ломает ответ", func(t *testing.T) {
		i := impl{store: &memVariations{getErr: errors.New("соединение потеряно")}}
		rec := testVariation(models.VariationStatusApproved)

		got := i.freshAfterApprove(rec, models.VariationStatusApproved)

		require.Same(t, rec, got)
	})
}
