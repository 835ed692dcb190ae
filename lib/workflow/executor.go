package workflow

import (
	"pm-tools-backend/models"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Executor - единственная точка изменения статуса сущности.
// Проверяет права и таблицу переходов, применяет переход и фиксирует
// его в хранилище с optimistic-guard по исходному статусу.
type Executor struct {
	store   EntityStore
	rbac    CapabilityChecker
	history HistoryRecorder
	now     func() time.Time
}

func NewExecutor(store EntityStore, rbac CapabilityChecker, history HistoryRecorder) Executor {
	return Executor{
		store:   store,
		rbac:    rbac,
		history: history,
		now:     time.Now,
	}
}

func (ex Executor) Execute(rec Entity, action models.WfAction, actor Actor, payload Payload) (Result, error) {
	from := rec.WorkflowStatus()
	kind := rec.WorkflowKind()
	res := Result{From: from, To: from}

	if ex.rbac != nil && !ex.rbac.Allowed(actor.Role, kind, action) {
		return res, errors.Wrapf(ErrUnauthorized, "действие %v", action)
	}

	next, ok := NextStatus(kind, from, action)
	if !ok {
		if side, isSign := SignSideOf(action); isSign {
			// повторная подпись и подпись не в том статусе - разные ошибки
			if s, signable := rec.(Signable); signable && s.Signatures().Signed(side) {
				return res, ErrAlreadySigned
			}
			return res, ErrWrongStatus
		}
		return res, errors.Wrapf(ErrInvalidTransition, "статус %v, действие %v", from, action)
	}

	at := ex.now()
	comment := strings.TrimSpace(payload.Comment)

	if side, isSign := SignSideOf(action); isSign {
		s, signable := rec.(Signable)
		if !signable {
			return res, ErrWrongStatus
		}
		if err := RecordSignature(s, side, actor.UserID, at); err != nil {
			return res, err
		}
	} else {
		if isRejectLike(action) && comment == "" {
			return res, errors.Wrap(ErrValidationFailure, "не указана причина отклонения")
		}
		rec.SetWorkflowStatus(next)
	}

	switch {
	case isRejectLike(action):
		// отклонение сбрасывает поставленные подписи
		if s, signable := rec.(Signable); signable {
			s.Signatures().Reset()
		}
		if r, rejectable := rec.(Rejectable); rejectable && rec.WorkflowStatus() == models.VariationStatusRejected {
			r.Rejection().Fill(actor.UserID, comment, at)
		}
		if c, commented := rec.(Commented); commented {
			c.SetWorkflowComment(comment)
		}
	case action == models.ActionRevise:
		if r, rejectable := rec.(Rejectable); rejectable {
			r.Rejection().Clear()
		}
	case action == models.ActionRemediate:
		if c, commented := rec.(Commented); commented {
			c.SetWorkflowComment("")
		}
	}

	if err := ex.store.Save(rec, from); err != nil {
		return res, err
	}

	if chain, chained := ex.store.(ChainStore); chained {
		switch action {
		case models.ActionReject:
			if err := chain.TruncateChain(rec); err != nil {
				return res, err
			}
		case models.ActionSubmit, models.ActionValidate, models.ActionApprove, models.ActionDeliver:
			if err := chain.AppendStep(rec, rec.WorkflowStatus(), actor.UserID, at); err != nil {
				return res, err
			}
		}
	}

	res.To = rec.WorkflowStatus()
	if ex.history != nil {
		ex.history.Record(rec, action, from, res.To, actor, comment)
	}
	return res, nil
}

func isRejectLike(action models.WfAction) bool {
	return action == models.ActionReject || action == models.ActionRequestChanges
}
