package dbmodels

import (
	"pm-tools-backend/models"
	"time"
)

// SignaturePair - двусторонняя подпись (исполнитель/заказчик).
// Поля стороны заполняются ровно один раз и сбрасываются только
// транзитом отклонения.
type SignaturePair struct {
	SupplierSignedAt *time.Time `json:"supplier_signed_at"`
	SupplierSignerID *string    `gorm:"type:varchar(36)" json:"supplier_signer_id"`
	CustomerSignedAt *time.Time `json:"customer_signed_at"`
	CustomerSignerID *string    `gorm:"type:varchar(36)" json:"customer_signer_id"`
}

func (s SignaturePair) Signed(side models.SignSide) bool {
	if side == models.SideSupplier {
		return s.SupplierSignedAt != nil
	}
	return s.CustomerSignedAt != nil
}

func (s SignaturePair) BothSigned() bool {
	return s.SupplierSignedAt != nil && s.CustomerSignedAt != nil
}

func (s *SignaturePair) Set(side models.SignSide, signerID string, at time.Time) {
	if side == models.SideSupplier {
		s.SupplierSignedAt = &at
		s.SupplierSignerID = &signerID
		return
	}
	s.CustomerSignedAt = &at
	s.CustomerSignerID = &signerID
}

func (s *SignaturePair) Reset() {
	s.SupplierSignedAt = nil
	s.SupplierSignerID = nil
	s.CustomerSignedAt = nil
	s.CustomerSignerID = nil
}

// RejectionRecord присутствует только в статусе REJECTED,
// снятие записи - единственный выход из статуса.
type RejectionRecord struct {
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectorID      *string    `gorm:"type:varchar(36)" json:"rejector_id"`
	RejectionReason string     `json:"rejection_reason"`
}

func (r *RejectionRecord) Fill(rejectorID, reason string, at time.Time) {
	r.RejectedAt = &at
	r.RejectorID = &rejectorID
	r.RejectionReason = reason
}

func (r *RejectionRecord) Clear() {
	r.RejectedAt = nil
	r.RejectorID = nil
	r.RejectionReason = ""
}
