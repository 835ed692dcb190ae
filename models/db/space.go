package dbmodels

import "time"

type Space struct {
	BaseModel
	OrganizationName string `gorm:"type:varchar(255)"` // Юридическое название компании
	Inn              string `gorm:"type:varchar(12)"`  // ИНН
	Kpp              string `gorm:"type:varchar(9)"`   // КПП
	DirectorName     string `gorm:"type:varchar(255)"`
	IsActive         bool
	StartPay         time.Time
	StopPay          time.Time
}
