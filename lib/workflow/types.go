package workflow

import (
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"
	"time"
)

// Entity - сущность, статусом которой управляет исполнитель переходов.
// Статус меняется только через Execute, прямые записи запрещены.
type Entity interface {
	GetID() string
	GetSpaceID() string
	WorkflowKind() models.WfKind
	WorkflowStatus() models.WfStatus
	SetWorkflowStatus(status models.WfStatus)
}

// Signable - сущность с двусторонней подписью
type Signable interface {
	Entity
	Signatures() *dbmodels.SignaturePair
}

// Rejectable - сущность с постоянной записью об отклонении
type Rejectable interface {
	Entity
	Rejection() *dbmodels.RejectionRecord
}

// Commented - сущность, хранящая причину последнего возврата
type Commented interface {
	SetWorkflowComment(comment string)
}

// Authored - сущность с автором (для проверки прав на правку черновика)
type Authored interface {
	GetAuthorID() string
}

type Actor struct {
	UserID string
	Role   models.UserRole
}

type Payload struct {
	Comment string
}

type Result struct {
	From models.WfStatus
	To   models.WfStatus
}

// EntityStore - граница хранения. Save фиксирует статус и поля процесса
// при условии, что в БД всё ещё ожидаемый статус - проигравший
// конкурентный запрос получает ErrConcurrentModification.
type EntityStore interface {
	Save(rec Entity, expected models.WfStatus) error
}

// ChainStore реализуется хранилищами сущностей с цепочкой проверки
type ChainStore interface {
	AppendStep(rec Entity, stage models.WfStatus, actorID string, at time.Time) error
	TruncateChain(rec Entity) error
}

// CapabilityChecker - граница ролевой модели
type CapabilityChecker interface {
	Allowed(role models.UserRole, kind models.WfKind, action models.WfAction) bool
}

// HistoryRecorder - журнал переходов; ошибки записи не прерывают переход
type HistoryRecorder interface {
	Record(rec Entity, action models.WfAction, from, to models.WfStatus, actor Actor, comment string)
}
