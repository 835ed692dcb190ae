package rbac

import (
	"strings"

	"pm-tools-backend/db"
	deliverablestore "pm-tools-backend/lib/deliverable/store"
	timesheetstore "pm-tools-backend/lib/timesheet/store"
	variationstore "pm-tools-backend/lib/variation/store"
	"pm-tools-backend/models"
)

var (
	AllRoles             = []models.UserRole{models.SpaceAdminRole, models.CustomerRole, models.SupplierRole, models.ObserverRole}
	AdminRoleSet         = []models.UserRole{models.SpaceAdminRole}
	AdminSupplierRoleSet = []models.UserRole{models.SpaceAdminRole, models.SupplierRole}
	AdminCustomerRoleSet = []models.UserRole{models.SpaceAdminRole, models.CustomerRole}
	AdminPartiesRoleSet  = []models.UserRole{models.SpaceAdminRole, models.SupplierRole, models.CustomerRole}
)

// Допустимые роли по действиям процесса. Статусные ограничения проверяет
// таблица переходов, здесь только ролевой срез.
var workflowRules = map[models.WfKind]map[models.WfAction][]models.UserRole{
	models.KindVariation: {
		models.ActionSubmit:       AdminSupplierRoleSet,
		models.ActionSignSupplier: AdminSupplierRoleSet,
		models.ActionSignCustomer: AdminCustomerRoleSet,
		models.ActionReject:       AdminPartiesRoleSet,
		models.ActionRevise:       AdminSupplierRoleSet,
		// применить может любая из сторон: применение запускается
		// автоматически после второй подписи
		models.ActionApply: AdminPartiesRoleSet,
	},
	models.KindMilestoneCertificate: {
		models.ActionRequestCert:    AdminSupplierRoleSet,
		models.ActionSignSupplier:   AdminSupplierRoleSet,
		models.ActionSignCustomer:   AdminCustomerRoleSet,
		models.ActionRequestChanges: AdminCustomerRoleSet,
		models.ActionRemediate:      AdminSupplierRoleSet,
	},
	models.KindTimesheet: {
		models.ActionSubmit:   AdminSupplierRoleSet,
		models.ActionValidate: AdminSupplierRoleSet,
		models.ActionApprove:  AdminCustomerRoleSet,
		models.ActionReject:   AdminPartiesRoleSet,
	},
	models.KindDeliverable: {
		models.ActionSubmit:   AdminSupplierRoleSet,
		models.ActionValidate: AdminSupplierRoleSet,
		models.ActionApprove:  AdminCustomerRoleSet,
		models.ActionReject:   AdminPartiesRoleSet,
		models.ActionDeliver:  AdminSupplierRoleSet,
	},
}

func (i *impl) initRules() {
	i.addUsersRbac()
	i.addProjectRbac()
	i.addMilestoneRbac()
	i.addVariationRbac()
	i.addTimesheetRbac()
	i.addDeliverableRbac()
	i.addExportRbac()
	i.profile()
}

func (i *impl) addUsersRbac() {
	//VIEW
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/list [post]", nil)
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/{id} [get]", nil)
	//MANAGE
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users [post]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [delete]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [put]", nil)
}

func (i *impl) addProjectRbac() {
	// VIEW
	i.RegisterRule(models.ProjectModule, models.ViewPermission, AllRoles, "/api/v1/space/project/list [post]", nil)
	i.RegisterRule(models.ProjectModule, models.ViewPermission, AllRoles, "/api/v1/space/project/{id} [get]", nil)
	// MANAGE
	i.RegisterRule(models.ProjectModule, models.ManagePermission, AdminRoleSet, "/api/v1/space/project [post]", nil)
	i.RegisterRule(models.ProjectModule, models.ManagePermission, AdminRoleSet, "/api/v1/space/project/{id} [put]", nil)
	i.RegisterRule(models.ProjectModule, models.ManagePermission, AdminRoleSet, "/api/v1/space/project/{id} [delete]", nil)
}

func (i *impl) addMilestoneRbac() {
	// VIEW
	i.RegisterRule(models.MilestoneModule, models.ViewPermission, AllRoles, "/api/v1/space/milestone/list [post]", nil)
	i.RegisterRule(models.MilestoneModule, models.ViewPermission, AllRoles, "/api/v1/space/milestone/{id} [get]", nil)
	i.RegisterRule(models.MilestoneModule, models.ViewPermission, AllRoles, "/api/v1/space/milestone/{id}/actuals [get]", nil)
	// MANAGE
	i.RegisterRule(models.MilestoneModule, models.ManagePermission, AdminRoleSet, "/api/v1/space/milestone [post]", nil)
	i.RegisterRule(models.MilestoneModule, models.ManagePermission, AdminRoleSet, "/api/v1/space/milestone/{id} [put]", nil)
	i.RegisterRule(models.MilestoneModule, models.ManagePermission, AdminRoleSet, "/api/v1/space/milestone/{id} [delete]", nil)
	// CERTIFICATE
	i.RegisterRule(models.MilestoneModule, models.CertificatePermission, AdminSupplierRoleSet, "/api/v1/space/milestone/{id}/certificate/request [put]", nil)
	i.RegisterRule(models.MilestoneModule, models.SignSupplierPermission, AdminSupplierRoleSet, "/api/v1/space/milestone/{id}/certificate/sign_supplier [put]", nil)
	i.RegisterRule(models.MilestoneModule, models.SignCustomerPermission, AdminCustomerRoleSet, "/api/v1/space/milestone/{id}/certificate/sign_customer [put]", nil)
	i.RegisterRule(models.MilestoneModule, models.CertificatePermission, AdminCustomerRoleSet, "/api/v1/space/milestone/{id}/certificate/request_changes [put]", nil)
	i.RegisterRule(models.MilestoneModule, models.CertificatePermission, AdminSupplierRoleSet, "/api/v1/space/milestone/{id}/certificate/remediate [put]", nil)
	i.RegisterRule(models.MilestoneModule, models.FilesPermission, AllRoles, "/api/v1/space/milestone/{id}/certificate/file [get]", nil)
	i.RegisterRule(models.MilestoneModule, models.ViewPermission, AllRoles, "/api/v1/space/milestone/{id}/certificate/history [get]", nil)
}

func (i *impl) addVariationRbac() {
	// VIEW
	i.RegisterRule(models.VariationModule, models.ViewPermission, AllRoles, "/api/v1/space/variation/list [post]", nil)
	i.RegisterRule(models.VariationModule, models.ViewPermission, AllRoles, "/api/v1/space/variation/{id} [get]", nil)
	i.RegisterRule(models.VariationModule, models.ViewPermission, AllRoles, "/api/v1/space/variation/{id}/history [get]", nil)
	// CREATE/EDIT + правка только своего черновика
	selfAllow := variationSelfAllow()
	i.RegisterRule(models.VariationModule, models.CreatePermission, AdminSupplierRoleSet, "/api/v1/space/variation [post]", nil)
	i.RegisterRule(models.VariationModule, models.EditPermission, AdminSupplierRoleSet, "/api/v1/space/variation/{id} [put]", selfAllow)
	i.RegisterRule(models.VariationModule, models.EditPermission, AdminSupplierRoleSet, "/api/v1/space/variation/{id} [delete]", selfAllow)
	// FLOW
	i.RegisterRule(models.VariationModule, models.FlowPermission, AdminSupplierRoleSet, "/api/v1/space/variation/{id}/submit [put]", selfAllow)
	i.RegisterRule(models.VariationModule, models.SignSupplierPermission, AdminSupplierRoleSet, "/api/v1/space/variation/{id}/sign_supplier [put]", nil)
	i.RegisterRule(models.VariationModule, models.SignCustomerPermission, AdminCustomerRoleSet, "/api/v1/space/variation/{id}/sign_customer [put]", nil)
	i.RegisterRule(models.VariationModule, models.RejectPermission, AdminPartiesRoleSet, "/api/v1/space/variation/{id}/reject [put]", nil)
	i.RegisterRule(models.VariationModule, models.FlowPermission, AdminSupplierRoleSet, "/api/v1/space/variation/{id}/revise [put]", selfAllow)
	i.RegisterRule(models.VariationModule, models.ApplyPermission, AdminPartiesRoleSet, "/api/v1/space/variation/{id}/apply [put]", nil)
}

func (i *impl) addTimesheetRbac() {
	// VIEW
	i.RegisterRule(models.TimesheetModule, models.ViewPermission, AllRoles, "/api/v1/space/timesheet/list [post]", nil)
	i.RegisterRule(models.TimesheetModule, models.ViewPermission, AllRoles, "/api/v1/space/timesheet/{id} [get]", nil)
	i.RegisterRule(models.TimesheetModule, models.ViewPermission, AllRoles, "/api/v1/space/timesheet/{id}/chain [get]", nil)
	i.RegisterRule(models.TimesheetModule, models.ViewPermission, AllRoles, "/api/v1/space/timesheet/{id}/history [get]", nil)
	// CREATE/EDIT
	selfAllow := timesheetSelfAllow()
	i.RegisterRule(models.TimesheetModule, models.CreatePermission, AdminSupplierRoleSet, "/api/v1/space/timesheet [post]", nil)
	i.RegisterRule(models.TimesheetModule, models.EditPermission, AdminSupplierRoleSet, "/api/v1/space/timesheet/{id} [put]", selfAllow)
	i.RegisterRule(models.TimesheetModule, models.EditPermission, AdminSupplierRoleSet, "/api/v1/space/timesheet/{id} [delete]", selfAllow)
	// FLOW
	i.RegisterRule(models.TimesheetModule, models.FlowPermission, AdminSupplierRoleSet, "/api/v1/space/timesheet/{id}/submit [put]", selfAllow)
	i.RegisterRule(models.TimesheetModule, models.ValidatePermission, AdminSupplierRoleSet, "/api/v1/space/timesheet/{id}/validate [put]", nil)
	i.RegisterRule(models.TimesheetModule, models.ApprovePermission, AdminCustomerRoleSet, "/api/v1/space/timesheet/{id}/approve [put]", nil)
	i.RegisterRule(models.TimesheetModule, models.RejectPermission, AdminPartiesRoleSet, "/api/v1/space/timesheet/{id}/reject [put]", nil)
}

func (i *impl) addDeliverableRbac() {
	// VIEW
	i.RegisterRule(models.DeliverableModule, models.ViewPermission, AllRoles, "/api/v1/space/deliverable/list [post]", nil)
	i.RegisterRule(models.DeliverableModule, models.ViewPermission, AllRoles, "/api/v1/space/deliverable/{id} [get]", nil)
	i.RegisterRule(models.DeliverableModule, models.ViewPermission, AllRoles, "/api/v1/space/deliverable/{id}/chain [get]", nil)
	i.RegisterRule(models.DeliverableModule, models.ViewPermission, AllRoles, "/api/v1/space/deliverable/{id}/history [get]", nil)
	// CREATE/EDIT
	selfAllow := deliverableSelfAllow()
	i.RegisterRule(models.DeliverableModule, models.CreatePermission, AdminSupplierRoleSet, "/api/v1/space/deliverable [post]", nil)
	i.RegisterRule(models.DeliverableModule, models.EditPermission, AdminSupplierRoleSet, "/api/v1/space/deliverable/{id} [put]", selfAllow)
	i.RegisterRule(models.DeliverableModule, models.EditPermission, AdminSupplierRoleSet, "/api/v1/space/deliverable/{id} [delete]", selfAllow)
	// FILES
	i.RegisterRule(models.DeliverableModule, models.FilesPermission, AdminSupplierRoleSet, "/api/v1/space/deliverable/{id}/upload-file [post]", selfAllow)
	i.RegisterRule(models.DeliverableModule, models.FilesPermission, AllRoles, "/api/v1/space/deliverable/{id}/file [get]", nil)
	// FLOW
	i.RegisterRule(models.DeliverableModule, models.FlowPermission, AdminSupplierRoleSet, "/api/v1/space/deliverable/{id}/submit [put]", selfAllow)
	i.RegisterRule(models.DeliverableModule, models.ValidatePermission, AdminSupplierRoleSet, "/api/v1/space/deliverable/{id}/validate [put]", nil)
	i.RegisterRule(models.DeliverableModule, models.ApprovePermission, AdminCustomerRoleSet, "/api/v1/space/deliverable/{id}/approve [put]", nil)
	i.RegisterRule(models.DeliverableModule, models.RejectPermission, AdminPartiesRoleSet, "/api/v1/space/deliverable/{id}/reject [put]", nil)
	i.RegisterRule(models.DeliverableModule, models.DeliverPermission, AdminSupplierRoleSet, "/api/v1/space/deliverable/{id}/deliver [put]", nil)
}

func (i *impl) addExportRbac() {
	i.RegisterRule(models.ExportModule, models.ViewPermission, AdminPartiesRoleSet, "/api/v1/space/export/timesheets [post]", nil)
}

func (i *impl) profile() {
	// EDIT
	i.RegisterRule(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/user_profile [get]", nil)
	i.RegisterRule(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/user_profile/change_password [put]", nil)
}

// variationSelfAllow - правка и отправка только своего запроса,
// администратору пространства доступны все
func variationSelfAllow() models.RbacFunc {
	return func(spaceID, userID string, role models.UserRole, uri string) bool {
		if role.IsSpaceAdmin() {
			return true
		}
		id := pathParamAfter(uri, "variation")
		if id == "" {
			return false
		}
		rec, err := variationstore.NewInstance(db.DB).GetByID(spaceID, id)
		if err != nil || rec == nil {
			return false
		}
		return rec.AuthorID == userID
	}
}

func timesheetSelfAllow() models.RbacFunc {
	return func(spaceID, userID string, role models.UserRole, uri string) bool {
		if role.IsSpaceAdmin() {
			return true
		}
		id := pathParamAfter(uri, "timesheet")
		if id == "" {
			return false
		}
		rec, err := timesheetstore.NewInstance(db.DB).GetByID(spaceID, id)
		if err != nil || rec == nil {
			return false
		}
		return rec.AuthorID == userID
	}
}

func deliverableSelfAllow() models.RbacFunc {
	return func(spaceID, userID string, role models.UserRole, uri string) bool {
		if role.IsSpaceAdmin() {
			return true
		}
		id := pathParamAfter(uri, "deliverable")
		if id == "" {
			return false
		}
		rec, err := deliverablestore.NewInstance(db.DB).GetByID(spaceID, id)
		if err != nil || rec == nil {
			return false
		}
		return rec.AuthorID == userID
	}
}

// pathParamAfter возвращает сегмент пути, следующий за указанным
func pathParamAfter(uri, segment string) string {
	parts := strings.Split(strings.Trim(uri, "/"), "/")
	for idx, part := range parts {
		if part == segment && idx+1 < len(parts) {
			return parts[idx+1]
		}
	}
	return ""
}
