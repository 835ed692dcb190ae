package workflow

import (
	"testing"
	"time"

	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saveErr   error
	saved     int
	steps     []models.WfStatus
	truncated int
}

func (m *memStore) Save(rec Entity, expected models.WfStatus) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	return nil
}

func (m *memStore) AppendStep(rec Entity, stage models.WfStatus, actorID string, at time.Time) error {
	m.steps = append(m.steps, stage)
	return nil
}

func (m *memStore) TruncateChain(rec Entity) error {
	m.truncated++
	m.steps = nil
	return nil
}

type allowAll struct{}

func (allowAll) Allowed(role models.UserRole, kind models.WfKind, action models.WfAction) bool {
	return true
}

type denyAll struct{}

func (denyAll) Allowed(role models.UserRole, kind models.WfKind, action models.WfAction) bool {
	return false
}

type historyCapture struct {
	actions []models.WfAction
}

func (h *historyCapture) Record(rec Entity, action models.WfAction, from, to models.WfStatus, actor Actor, comment string) {
	h.actions = append(h.actions, action)
}

func newVariation(status models.WfStatus) *dbmodels.Variation {
	v := &dbmodels.Variation{Status: status, AuthorID: "author-1"}
	v.ID = "var-1"
	v.SpaceID = "space-1"
	return v
}

func newCert(status models.WfStatus) *dbmodels.MilestoneCertificate {
	c := &dbmodels.MilestoneCertificate{Status: status}
	c.ID = "cert-1"
	c.SpaceID = "space-1"
	return c
}

func newTimesheet(status models.WfStatus) *dbmodels.Timesheet {
	t := &dbmodels.Timesheet{Status: status, AuthorID: "author-1"}
	t.ID = "ts-1"
	t.SpaceID = "space-1"
	return t
}

func newExecutor(store *memStore) Executor {
	ex := NewExecutor(store, allowAll{}, nil)
	ex.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return ex
}

func TestTransitionTable(t *testing.T) {
	t.Run("статусы переходов принадлежат закрытому множеству вида", func(t *testing.T) {
		for _, kind := range Kinds() {
			statuses := map[models.WfStatus]bool{}
			for _, s := range KindStatuses(kind) {
				statuses[s] = true
			}
			require.True(t, statuses[InitialStatus(kind)], "начальный статус %v", kind)
			for _, e := range kindEdges[kind] {
				require.True(t, statuses[e.From], "%v: статус %v", kind, e.From)
				require.True(t, statuses[e.To], "%v: статус %v", kind, e.To)
			}
		}
	})

	t.Run("из терминального статуса нет переходов", func(t *testing.T) {
		for _, kind := range Kinds() {
			for _, s := range kindTerminal[kind] {
				require.True(t, IsTerminal(kind, s))
				require.Empty(t, OutgoingActions(kind, s), "%v: %v", kind, s)
			}
		}
	})

	t.Run("недопустимая пара статус/действие", func(t *testing.T) {
		_, ok := NextStatus(models.KindVariation, models.VariationStatusDraft, models.ActionApply)
		require.False(t, ok)
		_, ok = NextStatus(models.KindTimesheet, models.ChainStatusDraft, models.ActionApprove)
		require.False(t, ok)
	})
}

func TestSignatureGate(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("оба порядка подписания сходятся в один статус", func(t *testing.T) {
		first := newVariation(models.VariationStatusSubmitted)
		require.Nil(t, RecordSignature(first, models.SideSupplier, "u-sup", at))
		require.Equal(t, models.VariationStatusAwaitingCustomer, first.Status)
		require.Nil(t, RecordSignature(first, models.SideCustomer, "u-cus", at))
		require.Equal(t, models.VariationStatusApproved, first.Status)

		second := newVariation(models.VariationStatusSubmitted)
		require.Nil(t, RecordSignature(second, models.SideCustomer, "u-cus", at))
		require.Equal(t, models.VariationStatusAwaitingSupplier, second.Status)
		require.Nil(t, RecordSignature(second, models.SideSupplier, "u-sup", at))
		require.Equal(t, models.VariationStatusApproved, second.Status)

		require.True(t, first.BothSigned())
		require.True(t, second.BothSigned())
	})

	t.Run("акт подписывается в любом порядке", func(t *testing.T) {
		cert := newCert(models.CertStatusRequested)
		require.Nil(t, RecordSignature(cert, models.SideCustomer, "u-cus", at))
		require.Equal(t, models.CertStatusRequested, cert.Status)
		require.Nil(t, RecordSignature(cert, models.SideSupplier, "u-sup", at))
		require.Equal(t, models.CertStatusSigned, cert.Status)
	})

	t.Run("повторная подпись стороны запрещена", func(t *testing.T) {
		v := newVariation(models.VariationStatusSubmitted)
		require.Nil(t, RecordSignature(v, models.SideSupplier, "u-sup", at))
		err := RecordSignature(v, models.SideSupplier, "u-sup", at)
		require.True(t, errors.Is(err, ErrAlreadySigned))
	})

	t.Run("подпись вне допустимого статуса", func(t *testing.T) {
		v := newVariation(models.VariationStatusDraft)
		err := RecordSignature(v, models.SideSupplier, "u-sup", at)
		require.True(t, errors.Is(err, ErrWrongStatus))
		require.False(t, v.Signed(models.SideSupplier))
	})
}

func TestExecutor(t *testing.T) {
	actor := Actor{UserID: "u-1", Role: models.SupplierRole}

	t.Run("успешный переход фиксируется и журналируется", func(t *testing.T) {
		store := &memStore{}
		history := &historyCapture{}
		ex := NewExecutor(store, allowAll{}, history)
		v := newVariation(models.VariationStatusDraft)
		res, err := ex.Execute(v, models.ActionSubmit, actor, Payload{})
		require.Nil(t, err)
		require.Equal(t, models.VariationStatusDraft, res.From)
		require.Equal(t, models.VariationStatusSubmitted, res.To)
		require.Equal(t, 1, store.saved)
		require.Equal(t, []models.WfAction{models.ActionSubmit}, history.actions)
	})

	t.Run("недопустимый переход", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		v := newVariation(models.VariationStatusApplied)
		_, err := ex.Execute(v, models.ActionSubmit, actor, Payload{})
		require.True(t, errors.Is(err, ErrInvalidTransition))
		require.Equal(t, 0, store.saved)
	})

	t.Run("запрет по роли", func(t *testing.T) {
		store := &memStore{}
		ex := NewExecutor(store, denyAll{}, nil)
		v := newVariation(models.VariationStatusDraft)
		_, err := ex.Execute(v, models.ActionSubmit, actor, Payload{})
		require.True(t, errors.Is(err, ErrUnauthorized))
		require.Equal(t, models.VariationStatusDraft, v.Status)
	})

	t.Run("отклонение без причины не проходит", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		v := newVariation(models.VariationStatusSubmitted)
		_, err := ex.Execute(v, models.ActionReject, actor, Payload{Comment: "   "})
		require.True(t, errors.Is(err, ErrValidationFailure))
		require.Equal(t, models.VariationStatusSubmitted, v.Status)
	})

	t.Run("отклонение сбрасывает подписи и заполняет запись об отклонении", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		v := newVariation(models.VariationStatusSubmitted)
		_, err := ex.Execute(v, models.ActionSignSupplier, actor, Payload{})
		require.Nil(t, err)
		require.True(t, v.Signed(models.SideSupplier))

		res, err := ex.Execute(v, models.ActionReject, actor, Payload{Comment: "смета не обоснована"})
		require.Nil(t, err)
		require.Equal(t, models.VariationStatusRejected, res.To)
		require.False(t, v.Signed(models.SideSupplier))
		require.NotNil(t, v.RejectedAt)
		require.Equal(t, "смета не обоснована", v.RejectionReason)
	})

	t.Run("возврат в работу снимает запись об отклонении", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		v := newVariation(models.VariationStatusRejected)
		v.Rejection().Fill("u-2", "смета не обоснована", time.Now())
		res, err := ex.Execute(v, models.ActionRevise, actor, Payload{})
		require.Nil(t, err)
		require.Equal(t, models.VariationStatusDraft, res.To)
		require.Nil(t, v.RejectedAt)
		require.Empty(t, v.RejectionReason)
	})

	t.Run("повторная подпись через исполнитель", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		v := newVariation(models.VariationStatusSubmitted)
		_, err := ex.Execute(v, models.ActionSignSupplier, actor, Payload{})
		require.Nil(t, err)
		_, err = ex.Execute(v, models.ActionSignSupplier, actor, Payload{})
		require.True(t, errors.Is(err, ErrAlreadySigned))
	})

	t.Run("конкурентное изменение не перезаписывается", func(t *testing.T) {
		store := &memStore{saveErr: ErrConcurrentModification}
		ex := newExecutor(store)
		v := newVariation(models.VariationStatusDraft)
		_, err := ex.Execute(v, models.ActionSubmit, actor, Payload{})
		require.True(t, errors.Is(err, ErrConcurrentModification))
	})

	t.Run("цепочка проверки табеля", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		ts := newTimesheet(models.ChainStatusDraft)

		_, err := ex.Execute(ts, models.ActionSubmit, actor, Payload{})
		require.Nil(t, err)
		_, err = ex.Execute(ts, models.ActionValidate, actor, Payload{})
		require.Nil(t, err)
		require.Equal(t, []models.WfStatus{models.ChainStatusSubmitted, models.ChainStatusValidated}, store.steps)

		_, err = ex.Execute(ts, models.ActionReject, actor, Payload{Comment: "часы не соответствуют задачам"})
		require.Nil(t, err)
		require.Equal(t, models.ChainStatusDraft, ts.Status)
		require.Equal(t, 1, store.truncated)
		require.Empty(t, store.steps)
	})

	t.Run("возврат акта требует причину и хранит её до устранения", func(t *testing.T) {
		store := &memStore{}
		ex := newExecutor(store)
		cert := newCert(models.CertStatusRequested)
		_, err := ex.Execute(cert, models.ActionRequestChanges, actor, Payload{})
		require.True(t, errors.Is(err, ErrValidationFailure))

		_, err = ex.Execute(cert, models.ActionRequestChanges, actor, Payload{Comment: "неверная сумма"})
		require.Nil(t, err)
		require.Equal(t, models.CertStatusChangesRequested, cert.Status)
		require.Equal(t, "неверная сумма", cert.Comment)

		_, err = ex.Execute(cert, models.ActionRemediate, actor, Payload{})
		require.Nil(t, err)
		require.Equal(t, models.CertStatusNotRequested, cert.Status)
		require.Empty(t, cert.Comment)
	})
}

func TestDispatcher(t *testing.T) {
	actor := Actor{UserID: "u-1", Role: models.SupplierRole}

	t.Run("ошибки хуков не отменяют переход", func(t *testing.T) {
		d := NewDispatcher()
		called := 0
		d.On(models.KindVariation, models.VariationStatusApplied, func(rec Entity, from, to models.WfStatus, actor Actor) error {
			called++
			return errors.New("хранилище недоступно")
		})
		d.OnAny(func(rec Entity, from, to models.WfStatus, actor Actor) error {
			called++
			return nil
		})
		v := newVariation(models.VariationStatusApplied)
		hMsg := d.Dispatch(v, models.VariationStatusApproved, models.VariationStatusApplied, actor)
		require.Equal(t, 2, called)
		require.Contains(t, hMsg, "хранилище недоступно")
	})

	t.Run("хук другого статуса не вызывается", func(t *testing.T) {
		d := NewDispatcher()
		called := 0
		d.On(models.KindVariation, models.VariationStatusApplied, func(rec Entity, from, to models.WfStatus, actor Actor) error {
			called++
			return nil
		})
		v := newVariation(models.VariationStatusSubmitted)
		hMsg := d.Dispatch(v, models.VariationStatusDraft, models.VariationStatusSubmitted, actor)
		require.Equal(t, 0, called)
		require.Empty(t, hMsg)
	})
}

func TestProjection(t *testing.T) {
	author := Actor{UserID: "author-1", Role: models.SupplierRole}

	t.Run("черновик доступен автору для правки и отправки", func(t *testing.T) {
		v := newVariation(models.VariationStatusDraft)
		caps := Project(v, author, allowAll{})
		require.True(t, caps.CanEdit)
		require.True(t, caps.CanDelete)
		require.True(t, caps.CanSubmit)
		require.False(t, caps.CanReject)
	})

	t.Run("чужой черновик недоступен для правки", func(t *testing.T) {
		v := newVariation(models.VariationStatusDraft)
		caps := Project(v, Actor{UserID: "u-other", Role: models.SupplierRole}, allowAll{})
		require.False(t, caps.CanEdit)
		require.True(t, caps.CanSubmit)
	})

	t.Run("после подачи подпись доступна обеим сторонам", func(t *testing.T) {
		v := newVariation(models.VariationStatusSubmitted)
		caps := Project(v, author, allowAll{})
		require.True(t, caps.CanSignAsSupplier)
		require.True(t, caps.CanSignAsCustomer)
	})

	t.Run("подпись предлагается только неподписавшей стороне", func(t *testing.T) {
		v := newVariation(models.VariationStatusSubmitted)
		v.Signatures().Set(models.SideSupplier, "u-sup", time.Now())
		v.Status = models.VariationStatusAwaitingCustomer
		caps := Project(v, author, allowAll{})
		require.False(t, caps.CanSignAsSupplier)
		require.True(t, caps.CanSignAsCustomer)
		require.True(t, caps.CanReject)
	})

	t.Run("роль без прав не получает действий", func(t *testing.T) {
		v := newVariation(models.VariationStatusSubmitted)
		caps := Project(v, Actor{UserID: "u-obs", Role: models.ObserverRole}, denyAll{})
		require.Equal(t, Capabilities{}, caps)
	})

	t.Run("подписанный акт доступен для просмотра", func(t *testing.T) {
		cert := newCert(models.CertStatusSigned)
		caps := Project(cert, author, allowAll{})
		require.True(t, caps.CanViewCertificate)
		require.False(t, caps.CanRequestChanges)
	})
}
