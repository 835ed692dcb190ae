package deliverablehandler

import (
	"context"
	"time"

	"pm-tools-backend/db"
	"pm-tools-backend/lib/billing"
	deliverablestore "pm-tools-backend/lib/deliverable/store"
	filestorage "pm-tools-backend/lib/file-storage"
	milestonestore "pm-tools-backend/lib/milestone/store"
	projectstore "pm-tools-backend/lib/project/store"
	"pm-tools-backend/lib/rbac"
	"pm-tools-backend/lib/workflow"
	chainstore "pm-tools-backend/lib/workflow/chain-store"
	wfhistorystore "pm-tools-backend/lib/workflow/history-store"
	"pm-tools-backend/models"
	deliverableapimodels "pm-tools-backend/models/api/deliverable"
	wfapimodels "pm-tools-backend/models/api/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(spaceID, userID string, data deliverableapimodels.DeliverableData) (id string, err error)
	GetByID(spaceID, id string, actor workflow.Actor) (item deliverableapimodels.DeliverableView, err error)
	Update(spaceID, id string, actor workflow.Actor, data deliverableapimodels.DeliverableData) error
	Delete(spaceID, id string, actor workflow.Actor) error
	List(spaceID string, actor workflow.Actor, filter deliverableapimodels.DeliverableFilter) (list []deliverableapimodels.DeliverableView, err error)
	ExecuteAction(spaceID, id string, actor workflow.Actor, action models.WfAction, comment string) (item deliverableapimodels.DeliverableView, hMsg string, err error)
	UploadFile(ctx context.Context, spaceID, id string, actor workflow.Actor, fileName, contentType string, fileData []byte) error
	GetFile(ctx context.Context, spaceID, id string) (fileData []byte, rec *dbmodels.FileRecord, err error)
	Chain(spaceID, id string) (list []wfapimodels.ChainStepView, err error)
	History(spaceID, id string) (list []wfapimodels.HistoryView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:          deliverablestore.NewInstance(db.DB),
		projectStore:   projectstore.NewInstance(db.DB),
		milestoneStore: milestonestore.NewInstance(db.DB),
		chainStore:     chainstore.NewInstance(db.DB),
		historyStore:   wfhistorystore.NewInstance(db.DB),
	}
	// утверждённый результат начисляется в зачёт этапа
	workflow.Hooks.On(models.KindDeliverable, models.ChainStatusApproved, approvedHook)
}

func approvedHook(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error {
	row, ok := rec.(*dbmodels.Deliverable)
	if !ok {
		return errors.Errorf("неожиданный тип записи %T", rec)
	}
	return billing.Instance.RecordDeliverable(*row)
}

type impl struct {
	store          deliverablestore.Provider
	projectStore   projectstore.Provider
	milestoneStore milestonestore.Provider
	chainStore     chainstore.Provider
	historyStore   wfhistorystore.Provider
}

func (i impl) checkDependency(spaceID string, data deliverableapimodels.DeliverableData) error {
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

func (i impl) Create(spaceID, userID string, data deliverableapimodels.DeliverableData) (id string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	err = i.checkDependency(spaceID, data)
	if err != nil {
		return "", err
	}
	rec := dbmodels.Deliverable{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:   data.ProjectID,
		MilestoneID: data.MilestoneID,
		AuthorID:    userID,
		Name:        data.Name,
		Description: data.Description,
		Cost:        data.Cost,
		Status:      workflow.InitialStatus(models.KindDeliverable),
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка создания результата работ")
		return "", errors.New("ошибка создания результата работ")
	}
	logger.
		WithField("rec_id", id).
		Info("создан результат работ")
	return id, nil
}

func (i impl) GetByID(spaceID, id string, actor workflow.Actor) (deliverableapimodels.DeliverableView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return deliverableapimodels.DeliverableView{}, err
	}
	i.ensureBilled(rec)
	return i.toView(rec, actor), nil
}

// ensureBilled догоняет начисление, если хук после утверждения упал.
// Начисление идемпотентно, поэтому повтор безопасен.
func (i impl) ensureBilled(rec *dbmodels.Deliverable) {
	if rec.Status != models.ChainStatusApproved && rec.Status != models.ChainStatusDelivered {
		return
	}
	billed, err := billing.Instance.HasActual(rec.SpaceID, models.KindDeliverable, rec.ID)
	if err != nil || billed {
		return
	}
	err = billing.Instance.RecordDeliverable(*rec)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", rec.SpaceID).
			WithField("rec_id", rec.ID).
			Error("не удалось повторить начисление результата работ")
	}
}

func (i impl) Update(spaceID, id string, actor workflow.Actor, data deliverableapimodels.DeliverableData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !workflow.Project(rec, actor, rbac.Checker{}).CanEdit {
		return errors.New("редактирование результата недоступно")
	}
	err = i.checkDependency(spaceID, data)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"project_id":   data.ProjectID,
		"milestone_id": data.MilestoneID,
		"name":         data.Name,
		"description":  data.Description,
		"cost":         data.Cost,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления результата работ")
		return errors.New("ошибка обновления результата работ")
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
		return errors.New("удаление результата недоступно")
	}
	err = i.store.Delete(spaceID, id)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления результата работ")
		return errors.New("ошибка удаления результата работ")
	}
	logger.Info("результат работ удален")
	return nil
}

func (i impl) List(spaceID string, actor workflow.Actor, filter deliverableapimodels.DeliverableFilter) ([]deliverableapimodels.DeliverableView, error) {
	storeFilter := deliverablestore.Filter{
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
			Error("ошибка получения списка результатов работ")
		return nil, errors.New("ошибка получения списка результатов работ")
	}
	result := make([]deliverableapimodels.DeliverableView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, i.toView(&rec, actor))
	}
	return result, nil
}

// ExecuteAction выполняет переход под блокировкой строки. Передача
// результата фиксирует дату передачи вместе со сменой статуса.
func (i impl) ExecuteAction(spaceID, id string, actor workflow.Actor, action models.WfAction, comment string) (item deliverableapimodels.DeliverableView, hMsg string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		WithField("action", action)
	var rec *dbmodels.Deliverable
	var res workflow.Result
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := deliverablestore.NewInstance(tx)
		rec, err = store.GetByIDForUpdate(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения результата работ")
		}
		if rec == nil {
			return errors.New("результат работ не найден")
		}
		if action == models.ActionDeliver {
			now := time.Now()
			rec.DeliveredAt = &now
		}
		ex := workflow.NewExecutor(store, rbac.Checker{}, wfhistorystore.NewInstance(tx))
		res, err = ex.Execute(rec, action, actor, workflow.Payload{Comment: comment})
		return err
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка выполнения действия над результатом работ")
		return deliverableapimodels.DeliverableView{}, "", err
	}
	logger.
		WithField("from_status", res.From).
		WithField("to_status", res.To).
		Info("выполнен переход результата работ")
	hMsg = workflow.Hooks.Dispatch(rec, res.From, res.To, actor)
	return i.toView(rec, actor), hMsg, nil
}

// UploadFile прикладывает вложение. Вложение меняется пока запись в
// черновике, после подачи состав результата зафиксирован.
func (i impl) UploadFile(ctx context.Context, spaceID, id string, actor workflow.Actor, fileName, contentType string, fileData []byte) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !workflow.Project(rec, actor, rbac.Checker{}).CanEdit {
		return errors.New("изменение вложения недоступно")
	}
	fileID, err := filestorage.Instance.Upload(ctx, spaceID, fileName, contentType, fileData)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка сохранения вложения")
		return errors.New("ошибка сохранения вложения")
	}
	updMap := map[string]interface{}{
		"file_id": fileID,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка привязки вложения")
		return errors.New("ошибка привязки вложения")
	}
	return nil
}

func (i impl) GetFile(ctx context.Context, spaceID, id string) ([]byte, *dbmodels.FileRecord, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return nil, nil, err
	}
	if rec.FileID == nil {
		return nil, nil, errors.New("вложение отсутствует")
	}
	return filestorage.Instance.GetFile(ctx, spaceID, *rec.FileID)
}

func (i impl) Chain(spaceID, id string) ([]wfapimodels.ChainStepView, error) {
	recList, err := i.chainStore.List(spaceID, models.KindDeliverable, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения цепочки проверки")
		return nil, errors.New("ошибка получения цепочки проверки")
	}
	result := make([]wfapimodels.ChainStepView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, wfapimodels.ChainStepConvert(rec))
	}
	return result, nil
}

func (i impl) History(spaceID, id string) ([]wfapimodels.HistoryView, error) {
	recList, err := i.historyStore.List(spaceID, models.KindDeliverable, id)
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

func (i impl) getRec(spaceID, id string) (*dbmodels.Deliverable, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения результата работ")
		return nil, errors.New("ошибка получения результата работ")
	}
	if rec == nil {
		return nil, errors.New("результат работ не найден")
	}
	return rec, nil
}

func (i impl) toView(rec *dbmodels.Deliverable, actor workflow.Actor) deliverableapimodels.DeliverableView {
	caps := workflow.Project(rec, actor, rbac.Checker{})
	return deliverableapimodels.DeliverableConvert(*rec, caps)
}
