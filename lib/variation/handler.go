package variationhandler

import (
	"time"

	"pm-tools-backend/db"
	"pm-tools-backend/lib/baseline"
	milestonestore "pm-tools-backend/lib/milestone/store"
	projectstore "pm-tools-backend/lib/project/store"
	"pm-tools-backend/lib/rbac"
	variationstore "pm-tools-backend/lib/variation/store"
	"pm-tools-backend/lib/workflow"
	wfhistorystore "pm-tools-backend/lib/workflow/history-store"
	"pm-tools-backend/models"
	variationapimodels "pm-tools-backend/models/api/variation"
	wfapimodels "pm-tools-backend/models/api/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(spaceID, userID string, data variationapimodels.VariationData) (id string, err error)
	GetByID(spaceID, id string, actor workflow.Actor) (item variationapimodels.VariationView, err error)
	Update(spaceID, id string, actor workflow.Actor, data variationapimodels.VariationData) error
	Delete(spaceID, id string, actor workflow.Actor) error
	List(spaceID string, actor workflow.Actor, filter variationapimodels.VariationFilter) (list []variationapimodels.VariationView, err error)
	ExecuteAction(spaceID, id string, actor workflow.Actor, action models.WfAction, comment string) (item variationapimodels.VariationView, hMsg string, err error)
	History(spaceID, id string) (list []wfapimodels.HistoryView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:          variationstore.NewInstance(db.DB),
		projectStore:   projectstore.NewInstance(db.DB),
		milestoneStore: milestonestore.NewInstance(db.DB),
		historyStore:   wfhistorystore.NewInstance(db.DB),
	}
	workflow.Hooks.On(models.KindVariation, models.VariationStatusApproved, approvedHook)
}

// approvedHook применяет согласованный запрос к базовому плану.
// Сбой оставляет запрос в статусе APPROVED, повтор через действие apply.
func approvedHook(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error {
	_, _, err := Instance.ExecuteAction(rec.GetSpaceID(), rec.GetID(), actor, models.ActionApply, "")
	return err
}

type impl struct {
	store          variationstore.Provider
	projectStore   projectstore.Provider
	milestoneStore milestonestore.Provider
	historyStore   wfhistorystore.Provider
}

func (i impl) checkDependency(spaceID string, data variationapimodels.VariationData) error {
	project, err := i.projectStore.GetByID(spaceID, data.ProjectID)
	if err != nil {
		return err
	}
	if project == nil {
		return errors.New("проект не найден")
	}
	milestone, err := i.milestoneStore.GetByID(spaceID, data.MilestoneID)
	if err != nil {
		return err
	}
	if milestone == nil {
		return errors.New("этап не найден")
	}
	if milestone.ProjectID != data.ProjectID {
		return errors.New("этап не относится к указанному проекту")
	}
	return nil
}

func (i impl) Create(spaceID, userID string, data variationapimodels.VariationData) (id string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	err = i.checkDependency(spaceID, data)
	if err != nil {
		return "", err
	}
	rec := dbmodels.Variation{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:        data.ProjectID,
		MilestoneID:      data.MilestoneID,
		AuthorID:         userID,
		Name:             data.Name,
		Description:      data.Description,
		BudgetDelta:      data.BudgetDelta,
		DueDateShiftDays: data.DueDateShiftDays,
		Status:           workflow.InitialStatus(models.KindVariation),
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка создания запроса на изменение")
		return "", errors.New("ошибка создания запроса на изменение")
	}
	logger.
		WithField("rec_id", id).
		Info("создан запрос на изменение")
	return id, nil
}

func (i impl) GetByID(spaceID, id string, actor workflow.Actor) (variationapimodels.VariationView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return variationapimodels.VariationView{}, err
	}
	return i.toView(rec, actor), nil
}

func (i impl) Update(spaceID, id string, actor workflow.Actor, data variationapimodels.VariationData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !workflow.Project(rec, actor, rbac.Checker{}).CanEdit {
		return errors.New("редактирование запроса недоступно")
	}
	err = i.checkDependency(spaceID, data)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"project_id":          data.ProjectID,
		"milestone_id":        data.MilestoneID,
		"name":                data.Name,
		"description":         data.Description,
		"budget_delta":        data.BudgetDelta,
		"due_date_shift_days": data.DueDateShiftDays,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления запроса на изменение")
		return errors.New("ошибка обновления запроса на изменение")
	}
	return nil
}

func (i impl) Delete(spaceID, id string, actor workflow.Actor) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !workflow.Project(rec, actor, rbac.Checker{}).CanDelete {
		return errors.New("удаление запроса недоступно")
	}
	err = i.store.Delete(spaceID, id)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления запроса на изменение")
		return errors.New("ошибка удаления запроса на изменение")
	}
	logger.Info("запрос на изменение удален")
	return nil
}

func (i impl) List(spaceID string, actor workflow.Actor, filter variationapimodels.VariationFilter) ([]variationapimodels.VariationView, error) {
	storeFilter := variationstore.Filter{
		ProjectID:   filter.ProjectID,
		MilestoneID: filter.MilestoneID,
	}
	for _, status := range filter.Statuses {
		storeFilter.Statuses = append(storeFilter.Statuses, models.WfStatus(status))
	}
	recList, err := i.store.List(spaceID, storeFilter)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			Error("ошибка получения списка запросов на изменение")
		return nil, errors.New("ошибка получения списка запросов на изменение")
	}
	result := make([]variationapimodels.VariationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, i.toView(&rec, actor))
	}
	return result, nil
}

// ExecuteAction выполняет переход в транзакции под блокировкой строки.
// Применение согласованного запроса меняет базовый план этапа в той же
// транзакции, починные действия запускаются после фиксации.
func (i impl) ExecuteAction(spaceID, id string, actor workflow.Actor, action models.WfAction, comment string) (item variationapimodels.VariationView, hMsg string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		WithField("action", action)
	var rec *dbmodels.Variation
	var res workflow.Result
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := variationstore.NewInstance(tx)
		rec, err = store.GetByIDForUpdate(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения запроса на изменение")
		}
		if rec == nil {
			return errors.New("запрос на изменение не найден")
		}
		if action == models.ActionApply {
			now := time.Now()
			rec.AppliedAt = &now
		}
		ex := workflow.NewExecutor(store, rbac.Checker{}, wfhistorystore.NewInstance(tx))
		res, err = ex.Execute(rec, action, actor, workflow.Payload{Comment: comment})
		if err != nil {
			return err
		}
		if action == models.ActionApply {
			return baseline.Instance.ApplyVariation(tx, rec)
		}
		return nil
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка выполнения действия над запросом на изменение")
		return variationapimodels.VariationView{}, "", err
	}
	logger.
		WithField("from_status", res.From).
		WithField("to_status", res.To).
		Info("выполнен переход запроса на изменение")
	hMsg = workflow.Hooks.Dispatch(rec, res.From, res.To, actor)
	rec = i.freshAfterApprove(rec, res.To)
	return i.toView(rec, actor), hMsg, nil
}

// freshAfterApprove перечитывает запись после согласования. Хук
// применения мог довести запрос до APPLIED, предупреждение других
// хуков этого не отменяет.
func (i impl) freshAfterApprove(rec *dbmodels.Variation, to models.WfStatus) *dbmodels.Variation {
	if to != models.VariationStatusApproved {
		return rec
	}
	fresh, err := i.store.GetByID(rec.SpaceID, rec.ID)
	if err != nil || fresh == nil {
		return rec
	}
	return fresh
}

func (i impl) History(spaceID, id string) ([]wfapimodels.HistoryView, error) {
	recList, err := i.historyStore.List(spaceID, models.KindVariation, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения журнала переходов")
		return nil, errors.New("ошибка получения журнала переходов")
	}
	result := make([]wfapimodels.HistoryView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, wfapimodels.HistoryConvert(rec))
	}
	return result, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Variation, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения запроса на изменение")
		return nil, errors.New("ошибка получения запроса на изменение")
	}
	if rec == nil {
		return nil, errors.New("запрос на изменение не найден")
	}
	return rec, nil
}

func (i impl) toView(rec *dbmodels.Variation, actor workflow.Actor) variationapimodels.VariationView {
	caps := workflow.Project(rec, actor, rbac.Checker{})
	return variationapimodels.VariationConvert(*rec, caps)
}
