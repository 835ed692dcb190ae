package wfapimodels

import (
	"time"

	"pm-tools-backend/lib/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
)

// ActionRequest - тело запроса действия процесса
type ActionRequest struct {
	Comment string `json:"comment"`
}

func (r ActionRequest) Validate() error {
	return nil
}

// RejectRequest - отклонение, причина обязательна
type RejectRequest struct {
	Comment string `json:"comment"`
}

func (r RejectRequest) Validate() error {
	if r.Comment == "" {
		return errors.New("не указана причина отклонения")
	}
	return nil
}

type TransitionView struct {
	FromStatus      string `json:"from_status"`
	ToStatus        string `json:"to_status"`
	FromStatusHuman string `json:"from_status_human"`
	ToStatusHuman   string `json:"to_status_human"`
}

func TransitionConvert(res workflow.Result) TransitionView {
	return TransitionView{
		FromStatus:      string(res.From),
		ToStatus:        string(res.To),
		FromStatusHuman: res.From.ToHuman(),
		ToStatusHuman:   res.To.ToHuman(),
	}
}

type HistoryView struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorName  string    `json:"actor_name"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func HistoryConvert(rec dbmodels.WorkflowHistory) HistoryView {
	actorName := ""
	if rec.Actor != nil {
		actorName = rec.Actor.GetFullName()
	}
	return HistoryView{
		ID:         rec.ID,
		Action:     rec.Action.ToHuman(),
		FromStatus: rec.FromStatus.ToHuman(),
		ToStatus:   rec.ToStatus.ToHuman(),
		ActorName:  actorName,
		Comment:    rec.Comment,
		CreatedAt:  rec.CreatedAt,
	}
}

type ChainStepView struct {
	ID        string    `json:"id"`
	Stage     string    `json:"stage"`
	ActorName string    `json:"actor_name"`
	ActedAt   time.Time `json:"acted_at"`
}

func ChainStepConvert(rec dbmodels.ValidationStep) ChainStepView {
	actorName := ""
	if rec.Actor != nil {
		actorName = rec.Actor.GetFullName()
	}
	return ChainStepView{
		ID:        rec.ID,
		Stage:     rec.Stage.ToHuman(),
		ActorName: actorName,
		ActedAt:   rec.ActedAt,
	}
}

type SignatureView struct {
	SupplierSignedAt *time.Time `json:"supplier_signed_at"`
	CustomerSignedAt *time.Time `json:"customer_signed_at"`
}

func SignatureConvert(pair dbmodels.SignaturePair) SignatureView {
	return SignatureView{
		SupplierSignedAt: pair.SupplierSignedAt,
		CustomerSignedAt: pair.CustomerSignedAt,
	}
}
