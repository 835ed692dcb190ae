package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "pm-tools-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Space{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Space")
	}
	if err := DB.AutoMigrate(&dbmodels.SpaceUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SpaceUser")
	}
	if err := DB.AutoMigrate(&dbmodels.Project{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Project")
	}
	if err := DB.AutoMigrate(&dbmodels.Milestone{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Milestone")
	}
	if err := DB.AutoMigrate(&dbmodels.MilestoneCertificate{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры MilestoneCertificate")
	}
	if err := DB.AutoMigrate(&dbmodels.Variation{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Variation")
	}
	if err := DB.AutoMigrate(&dbmodels.Timesheet{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Timesheet")
	}
	if err := DB.AutoMigrate(&dbmodels.Deliverable{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Deliverable")
	}
	if err := DB.AutoMigrate(&dbmodels.ValidationStep{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ValidationStep")
	}
	if err := DB.AutoMigrate(&dbmodels.WorkflowHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры WorkflowHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.MilestoneActual{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры MilestoneActual")
	}
	if err := DB.AutoMigrate(&dbmodels.CertificateSeq{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CertificateSeq")
	}
	if err := DB.AutoMigrate(&dbmodels.FileRecord{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры FileRecord")
	}
	if err := DB.AutoMigrate(&dbmodels.PushData{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PushData")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
