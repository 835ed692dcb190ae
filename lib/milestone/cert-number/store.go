package certnumber

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Provider выдаёт сквозные номера актов в пределах пространства
type Provider interface {
	Next(spaceID string) (number string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Next атомарно увеличивает счётчик пространства и форматирует номер
// вида АКТ-2025-0001. Конкурентные запросы сериализуются на строке
// счётчика, пропусков и дублей не бывает.
func (i impl) Next(spaceID string) (string, error) {
	var lastNumber int
	err := i.db.
		Raw(`INSERT INTO certificate_seqs (space_id, last_number) VALUES (?, 1)
			ON CONFLICT (space_id) DO UPDATE SET last_number = certificate_seqs.last_number + 1
			RETURNING last_number`, spaceID).
		Scan(&lastNumber).
		Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("АКТ-%d-%04d", time.Now().Year(), lastNumber), nil
}
