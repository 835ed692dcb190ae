package dbmodels

import "time"

type Project struct {
	BaseSpaceModel
	Name         string `gorm:"type:varchar(255)"`
	Description  string
	CustomerName string `gorm:"type:varchar(255)"` // Заказчик
	SupplierName string `gorm:"type:varchar(255)"` // Исполнитель
	StartDate    time.Time
	EndDate      time.Time
	IsActive     bool
	AuthorID     string     `gorm:"type:varchar(36)"`
	Author       *SpaceUser `gorm:"foreignKey:AuthorID"`
	Milestones   []Milestone
}
