package dbmodels

import (
	"pm-tools-backend/models"
	"time"
)

// ValidationStep - пройденный этап цепочки проверки (append-only,
// усечение только при отклонении с возвратом в черновик)
type ValidationStep struct {
	BaseSpaceModel
	EntityKind models.WfKind   `gorm:"type:varchar(50);index:idx_chain_entity"`
	EntityID   string          `gorm:"type:varchar(36);index:idx_chain_entity"`
	Stage      models.WfStatus `gorm:"type:varchar(50)"`
	ActorID    string          `gorm:"type:varchar(36)"`
	Actor      *SpaceUser      `gorm:"foreignKey:ActorID"`
	ActedAt    time.Time
}
