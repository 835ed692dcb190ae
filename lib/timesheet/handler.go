package timesheethandler

import (
	"bytes"

	"pm-tools-backend/db"
	"pm-tools-backend/lib/billing"
	xlsexport "pm-tools-backend/lib/export/xls"
	milestonestore "pm-tools-backend/lib/milestone/store"
	projectstore "pm-tools-backend/lib/project/store"
	"pm-tools-backend/lib/rbac"
	timesheetstore "pm-tools-backend/lib/timesheet/store"
	"pm-tools-backend/lib/workflow"
	chainstore "pm-tools-backend/lib/workflow/chain-store"
	wfhistorystore "pm-tools-backend/lib/workflow/history-store"
	"pm-tools-backend/models"
	timesheetapimodels "pm-tools-backend/models/api/timesheet"
	wfapimodels "pm-tools-backend/models/api/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(spaceID, userID string, data timesheetapimodels.TimesheetData) (id string, err error)
	GetByID(spaceID, id string, actor workflow.Actor) (item timesheetapimodels.TimesheetView, err error)
	Update(spaceID, id string, actor workflow.Actor, data timesheetapimodels.TimesheetData) error
	Delete(spaceID, id string, actor workflow.Actor) error
	List(spaceID string, actor workflow.Actor, filter timesheetapimodels.TimesheetFilter) (list []timesheetapimodels.TimesheetView, err error)
	ExecuteAction(spaceID, id string, actor workflow.Actor, action models.WfAction, comment string) (item timesheetapimodels.TimesheetView, hMsg string, err error)
	Chain(spaceID, id string) (list []wfapimodels.ChainStepView, err error)
	History(spaceID, id string) (list []wfapimodels.HistoryView, err error)
	Export(spaceID string, filter timesheetapimodels.TimesheetFilter) (fileData *bytes.Buffer, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:          timesheetstore.NewInstance(db.DB),
		projectStore:   projectstore.NewInstance(db.DB),
		milestoneStore: milestonestore.NewInstance(db.DB),
		chainStore:     chainstore.NewInstance(db.DB),
		historyStore:   wfhistorystore.NewInstance(db.DB),
	}
	// утверждённый табель начисляется в зачёт этапа
	workflow.Hooks.On(models.KindTimesheet, models.ChainStatusApproved, approvedHook)
}

func approvedHook(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error {
	row, ok := rec.(*dbmodels.Timesheet)
	if !ok {
		return errors.Errorf("неожиданный тип записи %T", rec)
	}
	return billing.Instance.RecordTimesheet(*row)
}

type impl struct {
	store          timesheetstore.Provider
	projectStore   projectstore.Provider
	milestoneStore milestonestore.Provider
	chainStore     chainstore.Provider
	historyStore   wfhistorystore.Provider
}

func (i impl) checkDependency(spaceID string, data timesheetapimodels.TimesheetData) error {
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

func (i impl) Create(spaceID, userID string, data timesheetapimodels.TimesheetData) (id string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	err = i.checkDependency(spaceID, data)
	if err != nil {
		return "", err
	}
	rec := dbmodels.Timesheet{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:   data.ProjectID,
		MilestoneID: data.MilestoneID,
		AuthorID:    userID,
		PeriodStart: data.PeriodStart,
		PeriodEnd:   data.PeriodEnd,
		Hours:       data.Hours,
		Rate:        data.Rate,
		Comment:     data.Comment,
		Status:      workflow.InitialStatus(models.KindTimesheet),
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка создания табеля")
		return "", errors.New("ошибка создания табеля")
	}
	logger.
		WithField("rec_id", id).
		Info("создан табель")
	return id, nil
}

func (i impl) GetByID(spaceID, id string, actor workflow.Actor) (timesheetapimodels.TimesheetView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return timesheetapimodels.TimesheetView{}, err
	}
	i.ensureBilled(rec)
	return i.toView(rec, actor), nil
}

// ensureBilled догоняет начисление, если хук после утверждения упал.
// Начисление идемпотентно, поэтому повтор безопасен.
func (i impl) ensureBilled(rec *dbmodels.Timesheet) {
	if rec.Status != models.ChainStatusApproved {
		return
	}
	billed, err := billing.Instance.HasActual(rec.SpaceID, models.KindTimesheet, rec.ID)
	if err != nil || billed {
		return
	}
	err = billing.Instance.RecordTimesheet(*rec)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", rec.SpaceID).
			WithField("rec_id", rec.ID).
			Error("не удалось повторить начисление табеля")
	}
}

func (i impl) Update(spaceID, id string, actor workflow.Actor, data timesheetapimodels.TimesheetData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !workflow.Project(rec, actor, rbac.Checker{}).CanEdit {
		return errors.New("редактирование табеля недоступно")
	}
	err = i.checkDependency(spaceID, data)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"project_id":   data.ProjectID,
		"milestone_id": data.MilestoneID,
		"period_start": data.PeriodStart,
		"period_end":   data.PeriodEnd,
		"hours":        data.Hours,
		"rate":         data.Rate,
		"comment":      data.Comment,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления табеля")
		return errors.New("ошибка обновления табеля")
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
		return errors.New("удаление табеля недоступно")
	}
	err = i.store.Delete(spaceID, id)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления табеля")
		return errors.New("ошибка удаления табеля")
	}
	logger.Info("табель удален")
	return nil
}

func (i impl) List(spaceID string, actor workflow.Actor, filter timesheetapimodels.TimesheetFilter) ([]timesheetapimodels.TimesheetView, error) {
	recList, err := i.list(spaceID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]timesheetapimodels.TimesheetView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, i.toView(&rec, actor))
	}
	return result, nil
}

// ExecuteAction выполняет переход цепочки проверки под блокировкой строки
func (i impl) ExecuteAction(spaceID, id string, actor workflow.Actor, action models.WfAction, comment string) (item timesheetapimodels.TimesheetView, hMsg string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		WithField("action", action)
	var rec *dbmodels.Timesheet
	var res workflow.Result
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := timesheetstore.NewInstance(tx)
		rec, err = store.GetByIDForUpdate(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения табеля")
		}
		if rec == nil {
			return errors.New("табель не найден")
		}
		ex := workflow.NewExecutor(store, rbac.Checker{}, wfhistorystore.NewInstance(tx))
		res, err = ex.Execute(rec, action, actor, workflow.Payload{Comment: comment})
		return err
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка выполнения действия над табелем")
		return timesheetapimodels.TimesheetView{}, "", err
	}
	logger.
		WithField("from_status", res.From).
		WithField("to_status", res.To).
		Info("выполнен переход табеля")
	hMsg = workflow.Hooks.Dispatch(rec, res.From, res.To, actor)
	return i.toView(rec, actor), hMsg, nil
}

func (i impl) Chain(spaceID, id string) ([]wfapimodels.ChainStepView, error) {
	recList, err := i.chainStore.List(spaceID, models.KindTimesheet, id)
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
	recList, err := i.historyStore.List(spaceID, models.KindTimesheet, id)
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

func (i impl) Export(spaceID string, filter timesheetapimodels.TimesheetFilter) (*bytes.Buffer, error) {
	recList, err := i.list(spaceID, filter)
	if err != nil {
		return nil, err
	}
	return xlsexport.Instance.ExportTimesheetList(recList)
}

func (i impl) list(spaceID string, filter timesheetapimodels.TimesheetFilter) ([]dbmodels.Timesheet, error) {
	storeFilter := timesheetstore.Filter{
		ProjectID:   filter.ProjectID,
		MilestoneID: filter.MilestoneID,
		AuthorID:    filter.AuthorID,
		PeriodFrom:  filter.PeriodFrom,
		PeriodTo:    filter.PeriodTo,
	}
	for _, status := range filter.Statuses {
		storeFilter.Statuses = append(storeFilter.Statuses, models.WfStatus(status))
	}
	recList, err := i.store.List(spaceID, storeFilter)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			Error("ошибка получения списка табелей")
		return nil, errors.New("ошибка получения списка табелей")
	}
	return recList, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Timesheet, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения табеля")
		return nil, errors.New("ошибка получения табеля")
	}
	if rec == nil {
		return nil, errors.New("табель не найден")
	}
	return rec, nil
}

func (i impl) toView(rec *dbmodels.Timesheet, actor workflow.Actor) timesheetapimodels.TimesheetView {
	caps := workflow.Project(rec, actor, rbac.Checker{})
	return timesheetapimodels.TimesheetConvert(*rec, caps)
}
