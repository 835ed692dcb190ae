package certstore

import (
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.MilestoneCertificate) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.MilestoneCertificate, err error)
	GetByIDForUpdate(spaceID, id string) (rec *dbmodels.MilestoneCertificate, err error)
	GetByMilestoneID(spaceID, milestoneID string) (rec *dbmodels.MilestoneCertificate, err error)
	GetByMilestoneIDForUpdate(spaceID, milestoneID string) (rec *dbmodels.MilestoneCertificate, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	Save(rec workflow.Entity, expected models.WfStatus) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.MilestoneCertificate) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.MilestoneCertificate, error) {
	return i.getByID(i.db, spaceID, id)
}

// GetByIDForUpdate читает акт с блокировкой строки, подписи двух сторон
// не должны накладываться параллельно
func (i impl) GetByIDForUpdate(spaceID, id string) (*dbmodels.MilestoneCertificate, error) {
	return i.getByID(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) getByID(tx *gorm.DB, spaceID, id string) (*dbmodels.MilestoneCertificate, error) {
	rec := dbmodels.MilestoneCertificate{}
	err := tx.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetByMilestoneID - у этапа не больше одного акта
func (i impl) GetByMilestoneID(spaceID, milestoneID string) (*dbmodels.MilestoneCertificate, error) {
	return i.getByMilestoneID(i.db, spaceID, milestoneID)
}

func (i impl) GetByMilestoneIDForUpdate(spaceID, milestoneID string) (*dbmodels.MilestoneCertificate, error) {
	return i.getByMilestoneID(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, milestoneID)
}

func (i impl) getByMilestoneID(tx *gorm.DB, spaceID, milestoneID string) (*dbmodels.MilestoneCertificate, error) {
	rec := dbmodels.MilestoneCertificate{}
	err := tx.
		Where("milestone_id = ?", milestoneID).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.MilestoneCertificate{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
}

func (i impl) Save(rec workflow.Entity, expected models.WfStatus) error {
	row, ok := rec.(*dbmodels.MilestoneCertificate)
	if !ok {
		return errors.Errorf("неожиданный тип записи %T", rec)
	}
	tx := i.db.
		Model(&dbmodels.MilestoneCertificate{}).
		Where("id = ?", row.ID).
		Where("space_id = ?", row.SpaceID).
		Where("status = ?", expected).
		Select("Status",
			"SupplierSignedAt", "SupplierSignerID",
			"CustomerSignedAt", "CustomerSignerID",
			"Comment", "CertNumber", "AppliedAt", "FileID").
		Updates(row)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return workflow.ErrConcurrentModification
	}
	return nil
}
