package models

// WfKind - вид сущности процесса согласования
type WfKind string

const (
	KindVariation            WfKind = "variation"
	KindMilestoneCertificate WfKind = "milestone_certificate"
	KindTimesheet            WfKind = "timesheet"
	KindDeliverable          WfKind = "deliverable"
)

var wfKindNames = map[WfKind]string{
	KindVariation:            "запрос на изменение",
	KindMilestoneCertificate: "акт по этапу",
	KindTimesheet:            "табель",
	KindDeliverable:          "результат работ",
}

func (k WfKind) ToHuman() string {
	value, ok := wfKindNames[k]
	if ok {
		return value
	}
	return string(k)
}

// WfStatus - статус сущности в процессе согласования
type WfStatus string

const (
	VariationStatusDraft            WfStatus = "DRAFT"
	VariationStatusSubmitted        WfStatus = "SUBMITTED"
	VariationStatusAwaitingCustomer WfStatus = "AWAITING_CUSTOMER"
	VariationStatusAwaitingSupplier WfStatus = "AWAITING_SUPPLIER"
	VariationStatusApproved         WfStatus = "APPROVED"
	VariationStatusRejected         WfStatus = "REJECTED"
	VariationStatusApplied          WfStatus = "APPLIED"

	CertStatusNotRequested     WfStatus = "NOT_REQUESTED"
	CertStatusRequested        WfStatus = "REQUESTED"
	CertStatusChangesRequested WfStatus = "CHANGES_REQUESTED"
	CertStatusSigned           WfStatus = "SIGNED"

	ChainStatusDraft     WfStatus = "DRAFT"
	ChainStatusSubmitted WfStatus = "SUBMITTED"
	ChainStatusValidated WfStatus = "VALIDATED"
	ChainStatusApproved  WfStatus = "APPROVED"
	ChainStatusDelivered WfStatus = "DELIVERED"
)

var wfStatusNames = map[WfStatus]string{
	VariationStatusDraft:            "черновик",
	VariationStatusSubmitted:        "на согласовании",
	VariationStatusAwaitingCustomer: "ожидает подписи заказчика",
	VariationStatusAwaitingSupplier: "ожидает подписи исполнителя",
	VariationStatusApproved:         "согласовано",
	VariationStatusRejected:         "отклонено",
	VariationStatusApplied:          "применено",
	CertStatusNotRequested:          "акт не запрошен",
	CertStatusRequested:             "акт на подписании",
	CertStatusChangesRequested:      "запрошены исправления",
	CertStatusSigned:                "акт подписан",
	ChainStatusValidated:            "проверено",
	ChainStatusDelivered:            "передано",
}

func (s WfStatus) ToHuman() string {
	value, ok := wfStatusNames[s]
	if ok {
		return value
	}
	return string(s)
}

// WfAction - действие над сущностью процесса согласования
type WfAction string

const (
	ActionSubmit         WfAction = "submit"
	ActionSignSupplier   WfAction = "sign_supplier"
	ActionSignCustomer   WfAction = "sign_customer"
	ActionReject         WfAction = "reject"
	ActionRevise         WfAction = "revise"
	ActionApply          WfAction = "apply"
	ActionRequestCert    WfAction = "request_certificate"
	ActionRequestChanges WfAction = "request_changes"
	ActionRemediate      WfAction = "remediate"
	ActionValidate       WfAction = "validate"
	ActionApprove        WfAction = "approve"
	ActionDeliver        WfAction = "deliver"
)

var wfActionNames = map[WfAction]string{
	ActionSubmit:         "отправить на согласование",
	ActionSignSupplier:   "подписать со стороны исполнителя",
	ActionSignCustomer:   "подписать со стороны заказчика",
	ActionReject:         "отклонить",
	ActionRevise:         "вернуть в работу",
	ActionApply:          "применить",
	ActionRequestCert:    "запросить акт",
	ActionRequestChanges: "запросить исправления",
	ActionRemediate:      "устранить замечания",
	ActionValidate:       "проверить",
	ActionApprove:        "утвердить",
	ActionDeliver:        "передать заказчику",
}

func (a WfAction) ToHuman() string {
	value, ok := wfActionNames[a]
	if ok {
		return value
	}
	return string(a)
}

// SignSide - сторона двусторонней подписи
type SignSide string

const (
	SideSupplier SignSide = "supplier"
	SideCustomer SignSide = "customer"
)

func (s SignSide) Other() SignSide {
	if s == SideSupplier {
		return SideCustomer
	}
	return SideSupplier
}

func (s SignSide) ToHuman() string {
	if s == SideSupplier {
		return "исполнитель"
	}
	return "заказчик"
}
