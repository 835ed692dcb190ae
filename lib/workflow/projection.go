package workflow

import (
	"pm-tools-backend/models"
)

// Capabilities - доступные пользователю действия над сущностью.
// Проекция чистая: считается из текущего статуса, подписей и роли,
// состояние не меняет.
type Capabilities struct {
	CanEdit               bool `json:"can_edit"`
	CanDelete             bool `json:"can_delete"`
	CanSubmit             bool `json:"can_submit"`
	CanSignAsSupplier     bool `json:"can_sign_as_supplier"`
	CanSignAsCustomer     bool `json:"can_sign_as_customer"`
	CanReject             bool `json:"can_reject"`
	CanRevise             bool `json:"can_revise"`
	CanApply              bool `json:"can_apply"`
	CanRequestCertificate bool `json:"can_request_certificate"`
	CanRequestChanges     bool `json:"can_request_changes"`
	CanRemediate          bool `json:"can_remediate"`
	CanValidate           bool `json:"can_validate"`
	CanApprove            bool `json:"can_approve"`
	CanDeliver            bool `json:"can_deliver"`
	CanViewCertificate    bool `json:"can_view_certificate"`
}

// статусы, в которых автор может править и удалять запись
var editableStatuses = map[models.WfKind]map[models.WfStatus]bool{
	models.KindVariation: {
		models.VariationStatusDraft: true,
	},
	models.KindTimesheet: {
		models.ChainStatusDraft: true,
	},
	models.KindDeliverable: {
		models.ChainStatusDraft: true,
	},
}

// Project вычисляет доступные действия для актора
func Project(rec Entity, actor Actor, rbac CapabilityChecker) (result Capabilities) {
	kind := rec.WorkflowKind()
	status := rec.WorkflowStatus()

	allowed := func(action models.WfAction) bool {
		if rbac != nil && !rbac.Allowed(actor.Role, kind, action) {
			return false
		}
		return true
	}

	for _, action := range OutgoingActions(kind, status) {
		if side, isSign := SignSideOf(action); isSign {
			s, signable := rec.(Signable)
			if !signable || !allowed(action) || !CanSign(s, side) {
				continue
			}
		} else if !allowed(action) {
			continue
		}
		switch action {
		case models.ActionSubmit:
			result.CanSubmit = true
		case models.ActionSignSupplier:
			result.CanSignAsSupplier = true
		case models.ActionSignCustomer:
			result.CanSignAsCustomer = true
		case models.ActionReject:
			result.CanReject = true
		case models.ActionRevise:
			result.CanRevise = true
		case models.ActionApply:
			result.CanApply = true
		case models.ActionRequestCert:
			result.CanRequestCertificate = true
		case models.ActionRequestChanges:
			result.CanRequestChanges = true
		case models.ActionRemediate:
			result.CanRemediate = true
		case models.ActionValidate:
			result.CanValidate = true
		case models.ActionApprove:
			result.CanApprove = true
		case models.ActionDeliver:
			result.CanDeliver = true
		}
	}

	if editableStatuses[kind][status] {
		if authored, ok := rec.(Authored); ok {
			isAuthor := authored.GetAuthorID() == actor.UserID
			if isAuthor || actor.Role.IsSpaceAdmin() {
				result.CanEdit = true
				result.CanDelete = true
			}
		}
	}

	if kind == models.KindMilestoneCertificate && status == models.CertStatusSigned {
		result.CanViewCertificate = true
	}
	return result
}
