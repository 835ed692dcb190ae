package initializers

import (
	"context"

	"pm-tools-backend/config"
	"pm-tools-backend/db"
	"pm-tools-backend/fiberlog"
	"pm-tools-backend/lib/baseline"
	"pm-tools-backend/lib/billing"
	deliverablehandler "pm-tools-backend/lib/deliverable"
	xlsexport "pm-tools-backend/lib/export/xls"
	filestorage "pm-tools-backend/lib/file-storage"
	milestonehandler "pm-tools-backend/lib/milestone"
	notifyhandler "pm-tools-backend/lib/notify"
	projecthandler "pm-tools-backend/lib/project"
	"pm-tools-backend/lib/rbac"
	spaceauthhandler "pm-tools-backend/lib/space/auth"
	spaceusershandler "pm-tools-backend/lib/space/users"
	timesheethandler "pm-tools-backend/lib/timesheet"
	variationhandler "pm-tools-backend/lib/variation"
	connectionhub "pm-tools-backend/lib/ws/hub/connection-hub"
	s3client "pm-tools-backend/s3"
)

var LoggerConfig *fiberlog.Config

// InitAllServices поднимает инфраструктуру и регистрирует обработчики.
// Инфраструктурные сервисы (биллинг, базовый план, нотификации) должны быть
// готовы до доменных обработчиков, которые вешают на них хуки переходов.
func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	filestorage.NewInstance(s3client.Client, db.DB)
	rbac.NewHandler()
	billing.NewHandler()
	baseline.NewHandler()
	xlsexport.NewHandler()
	notifyhandler.NewHandler()
	spaceusershandler.NewHandler()
	spaceauthhandler.NewHandler()
	projecthandler.NewHandler()
	milestonehandler.NewHandler()
	variationhandler.NewHandler()
	timesheethandler.NewHandler()
	deliverablehandler.NewHandler()
}
