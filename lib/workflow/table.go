package workflow

import (
	"pm-tools-backend/models"
)

type edge struct {
	From   models.WfStatus
	Action models.WfAction
	To     models.WfStatus
}

// Таблица переходов по видам сущностей. Подписные действия ведут в статус
// "ожидает вторую сторону", шлюз подписей (signature.go) сам продвигает в
// терминальный статус, если вторая подпись уже есть.
var kindEdges = map[models.WfKind][]edge{
	models.KindVariation: {
		{models.VariationStatusDraft, models.ActionSubmit, models.VariationStatusSubmitted},
		{models.VariationStatusSubmitted, models.ActionSignSupplier, models.VariationStatusAwaitingCustomer},
		{models.VariationStatusSubmitted, models.ActionSignCustomer, models.VariationStatusAwaitingSupplier},
		{models.VariationStatusAwaitingSupplier, models.ActionSignSupplier, models.VariationStatusApproved},
		{models.VariationStatusAwaitingCustomer, models.ActionSignCustomer, models.VariationStatusApproved},
		{models.VariationStatusSubmitted, models.ActionReject, models.VariationStatusRejected},
		{models.VariationStatusAwaitingCustomer, models.ActionReject, models.VariationStatusRejected},
		{models.VariationStatusAwaitingSupplier, models.ActionReject, models.VariationStatusRejected},
		{models.VariationStatusRejected, models.ActionRevise, models.VariationStatusDraft},
		{models.VariationStatusApproved, models.ActionApply, models.VariationStatusApplied},
	},
	models.KindMilestoneCertificate: {
		{models.CertStatusNotRequested, models.ActionRequestCert, models.CertStatusRequested},
		{models.CertStatusRequested, models.ActionSignSupplier, models.CertStatusRequested},
		{models.CertStatusRequested, models.ActionSignCustomer, models.CertStatusRequested},
		{models.CertStatusRequested, models.ActionRequestChanges, models.CertStatusChangesRequested},
		{models.CertStatusChangesRequested, models.ActionRemediate, models.CertStatusNotRequested},
	},
	models.KindTimesheet: {
		{models.ChainStatusDraft, models.ActionSubmit, models.ChainStatusSubmitted},
		{models.ChainStatusSubmitted, models.ActionValidate, models.ChainStatusValidated},
		{models.ChainStatusSubmitted, models.ActionReject, models.ChainStatusDraft},
		{models.ChainStatusValidated, models.ActionApprove, models.ChainStatusApproved},
		{models.ChainStatusValidated, models.ActionReject, models.ChainStatusDraft},
	},
	models.KindDeliverable: {
		{models.ChainStatusDraft, models.ActionSubmit, models.ChainStatusSubmitted},
		{models.ChainStatusSubmitted, models.ActionValidate, models.ChainStatusValidated},
		{models.ChainStatusSubmitted, models.ActionReject, models.ChainStatusDraft},
		{models.ChainStatusValidated, models.ActionApprove, models.ChainStatusApproved},
		{models.ChainStatusValidated, models.ActionReject, models.ChainStatusDraft},
		{models.ChainStatusApproved, models.ActionDeliver, models.ChainStatusDelivered},
	},
}

// Терминальные статусы - из них нет исходящих переходов
var kindTerminal = map[models.WfKind][]models.WfStatus{
	models.KindVariation:            {models.VariationStatusApplied},
	models.KindMilestoneCertificate: {models.CertStatusSigned},
	models.KindTimesheet:            {models.ChainStatusApproved},
	models.KindDeliverable:          {models.ChainStatusDelivered},
}

// Статус после двусторонней подписи
var dualTerminal = map[models.WfKind]models.WfStatus{
	models.KindVariation:            models.VariationStatusApproved,
	models.KindMilestoneCertificate: models.CertStatusSigned,
}

var initialStatus = map[models.WfKind]models.WfStatus{
	models.KindVariation:            models.VariationStatusDraft,
	models.KindMilestoneCertificate: models.CertStatusNotRequested,
	models.KindTimesheet:            models.ChainStatusDraft,
	models.KindDeliverable:          models.ChainStatusDraft,
}

func Kinds() []models.WfKind {
	return []models.WfKind{
		models.KindVariation,
		models.KindMilestoneCertificate,
		models.KindTimesheet,
		models.KindDeliverable,
	}
}

func InitialStatus(kind models.WfKind) models.WfStatus {
	return initialStatus[kind]
}

// NextStatus возвращает целевой статус для пары (текущий статус, действие),
// если переход объявлен в таблице
func NextStatus(kind models.WfKind, from models.WfStatus, action models.WfAction) (models.WfStatus, bool) {
	for _, e := range kindEdges[kind] {
		if e.From == from && e.Action == action {
			return e.To, true
		}
	}
	return "", false
}

func IsTerminal(kind models.WfKind, status models.WfStatus) bool {
	for _, s := range kindTerminal[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// KindStatuses - закрытое множество статусов вида
func KindStatuses(kind models.WfKind) []models.WfStatus {
	seen := map[models.WfStatus]bool{}
	result := []models.WfStatus{}
	add := func(s models.WfStatus) {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	add(initialStatus[kind])
	for _, e := range kindEdges[kind] {
		add(e.From)
		add(e.To)
	}
	for _, s := range kindTerminal[kind] {
		add(s)
	}
	return result
}

func OutgoingActions(kind models.WfKind, from models.WfStatus) []models.WfAction {
	result := []models.WfAction{}
	for _, e := range kindEdges[kind] {
		if e.From == from {
			result = append(result, e.Action)
		}
	}
	return result
}
