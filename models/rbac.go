package models

type RbacFunc func(spaceID, userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule       Module = "USERS"
	ProjectModule     Module = "PROJECT"
	MilestoneModule   Module = "MILESTONE"
	VariationModule   Module = "VARIATION"
	TimesheetModule   Module = "TIMESHEET"
	DeliverableModule Module = "DELIVERABLE"
	ExportModule      Module = "EXPORT"
	ProfileModule     Module = "PROFILE"
)

type Permission string

const (
	CreatePermission       Permission = "CREATE"
	EditPermission         Permission = "EDIT"
	ViewPermission         Permission = "VIEW"
	ManagePermission       Permission = "MANAGE"
	FlowPermission         Permission = "FLOW"
	SignSupplierPermission Permission = "SIGN_AS_SUPPLIER"
	SignCustomerPermission Permission = "SIGN_AS_CUSTOMER"
	ValidatePermission     Permission = "VALIDATE"
	ApprovePermission      Permission = "APPROVE"
	RejectPermission       Permission = "REJECT"
	ApplyPermission        Permission = "APPLY"
	DeliverPermission      Permission = "DELIVER"
	CertificatePermission  Permission = "CERTIFICATE"
	FilesPermission        Permission = "FILES"
)
