package dbmodels

// CertificateSeq - счётчик номеров актов на пространство
type CertificateSeq struct {
	SpaceID    string `gorm:"primaryKey;type:varchar(36)"`
	LastNumber int
}
