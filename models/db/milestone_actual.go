package dbmodels

import "pm-tools-backend/models"

// MilestoneActual - утверждённый факт (часы/стоимость) в зачёт этапа.
// Уникальный индекс по источнику даёт идемпотентность повторной записи.
type MilestoneActual struct {
	BaseSpaceModel
	MilestoneID string        `gorm:"type:varchar(36);index"`
	SourceKind  models.WfKind `gorm:"type:varchar(50);uniqueIndex:idx_actual_source"`
	SourceID    string        `gorm:"type:varchar(36);uniqueIndex:idx_actual_source"`
	Amount      float64
	Hours       float64
}
