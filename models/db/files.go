package dbmodels

// FileRecord - метаданные файла в S3 хранилище
type FileRecord struct {
	BaseSpaceModel
	Name        string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(100)"`
	Size        int64
}
