package workflow

import (
	"fmt"
	"pm-tools-backend/models"
	"strings"

	log "github.com/sirupsen/logrus"
)

// HookFunc - побочное действие перехода. Вызывается после фиксации
// перехода; ошибка не откатывает переход, действие должно быть
// идемпотентным и повторяемым.
type HookFunc func(rec Entity, from, to models.WfStatus, actor Actor) error

type hookKey struct {
	kind models.WfKind
	to   models.WfStatus
}

type Dispatcher struct {
	hooks    map[hookKey][]HookFunc
	anyHooks []HookFunc
}

// Hooks - общий диспетчер приложения, хуки регистрируются при старте
var Hooks = NewDispatcher()

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		hooks: map[hookKey][]HookFunc{},
	}
}

// On регистрирует хук на достижение статуса
func (d *Dispatcher) On(kind models.WfKind, to models.WfStatus, hook HookFunc) {
	key := hookKey{kind: kind, to: to}
	d.hooks[key] = append(d.hooks[key], hook)
}

// OnAny регистрирует хук на любой переход (уведомления, аудит)
func (d *Dispatcher) OnAny(hook HookFunc) {
	d.anyHooks = append(d.anyHooks, hook)
}

// Dispatch запускает хуки перехода. Ошибки собираются в человекочитаемое
// предупреждение, переход при этом считается выполненным.
func (d *Dispatcher) Dispatch(rec Entity, from, to models.WfStatus, actor Actor) (hMsg string) {
	logger := log.
		WithField("space_id", rec.GetSpaceID()).
		WithField("entity_kind", rec.WorkflowKind()).
		WithField("entity_id", rec.GetID()).
		WithField("from_status", from).
		WithField("to_status", to)
	warnings := []string{}
	run := func(hook HookFunc) {
		if err := hook(rec, from, to, actor); err != nil {
			logger.WithError(err).Error("ошибка выполнения зависимого действия перехода")
			warnings = append(warnings, fmt.Sprintf("переход выполнен, но не завершено зависимое действие: %v", err))
		}
	}
	for _, hook := range d.hooks[hookKey{kind: rec.WorkflowKind(), to: to}] {
		run(hook)
	}
	for _, hook := range d.anyHooks {
		run(hook)
	}
	return strings.Join(warnings, "; ")
}
