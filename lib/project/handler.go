package projecthandler

import (
	"pm-tools-backend/db"
	projectstore "pm-tools-backend/lib/project/store"
	projectapimodels "pm-tools-backend/models/api/project"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(spaceID, userID string, data projectapimodels.ProjectData) (id string, err error)
	GetByID(spaceID, id string) (item projectapimodels.ProjectView, err error)
	Update(spaceID, id string, data projectapimodels.ProjectData) error
	Delete(spaceID, id string) error
	List(spaceID string) (list []projectapimodels.ProjectView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: projectstore.NewInstance(db.DB),
	}
}

type impl struct {
	store projectstore.Provider
}

func (i impl) Create(spaceID, userID string, data projectapimodels.ProjectData) (id string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	rec := dbmodels.Project{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:         data.Name,
		Description:  data.Description,
		CustomerName: data.CustomerName,
		SupplierName: data.SupplierName,
		StartDate:    data.StartDate,
		EndDate:      data.EndDate,
		IsActive:     true,
		AuthorID:     userID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка создания проекта")
		return "", errors.New("ошибка создания проекта")
	}
	logger.
		WithField("rec_id", id).
		Info("создан проект")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (projectapimodels.ProjectView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return projectapimodels.ProjectView{}, err
	}
	return projectapimodels.ProjectConvert(*rec), nil
}

func (i impl) Update(spaceID, id string, data projectapimodels.ProjectData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	_, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"name":          data.Name,
		"description":   data.Description,
		"customer_name": data.CustomerName,
		"supplier_name": data.SupplierName,
		"start_date":    data.StartDate,
		"end_date":      data.EndDate,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления проекта")
		return errors.New("ошибка обновления проекта")
	}
	return nil
}

func (i impl) Delete(spaceID, id string) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if len(rec.Milestones) > 0 {
		return errors.New("нельзя удалить проект с этапами")
	}
	err = i.store.Delete(spaceID, id)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления проекта")
		return errors.New("ошибка удаления проекта")
	}
	logger.Info("проект удален")
	return nil
}

func (i impl) List(spaceID string) ([]projectapimodels.ProjectView, error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			Error("ошибка получения списка проектов")
		return nil, errors.New("ошибка получения списка проектов")
	}
	result := make([]projectapimodels.ProjectView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, projectapimodels.ProjectConvert(rec))
	}
	return result, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Project, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения проекта")
		return nil, errors.New("ошибка получения проекта")
	}
	if rec == nil {
		return nil, errors.New("проект не найден")
	}
	return rec, nil
}
