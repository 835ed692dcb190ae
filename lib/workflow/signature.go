package workflow

import (
	"pm-tools-backend/models"
	"time"
)

var sideActions = map[models.SignSide]models.WfAction{
	models.SideSupplier: models.ActionSignSupplier,
	models.SideCustomer: models.ActionSignCustomer,
}

// SignSideOf возвращает сторону подписи для подписного действия
func SignSideOf(action models.WfAction) (models.SignSide, bool) {
	for side, a := range sideActions {
		if a == action {
			return side, true
		}
	}
	return "", false
}

// CanSign - можно ли сейчас поставить подпись стороны:
// статус допускает подписание и сторона ещё не подписывала
func CanSign(rec Signable, side models.SignSide) bool {
	if rec.Signatures().Signed(side) {
		return false
	}
	_, ok := NextStatus(rec.WorkflowKind(), rec.WorkflowStatus(), sideActions[side])
	return ok
}

// RecordSignature ставит подпись стороны и пересчитывает статус:
// если вторая подпись уже есть - терминальный статус двусторонней подписи,
// иначе - ожидание второй стороны. Оба порядка подписания сходятся в один
// и тот же статус.
func RecordSignature(rec Signable, side models.SignSide, actorID string, at time.Time) error {
	pair := rec.Signatures()
	if pair.Signed(side) {
		return ErrAlreadySigned
	}
	next, ok := NextStatus(rec.WorkflowKind(), rec.WorkflowStatus(), sideActions[side])
	if !ok {
		return ErrWrongStatus
	}
	pair.Set(side, actorID, at)
	if pair.Signed(side.Other()) {
		rec.SetWorkflowStatus(dualTerminal[rec.WorkflowKind()])
		return nil
	}
	rec.SetWorkflowStatus(next)
	return nil
}
