package milestonehandler

import (
	"context"
	"fmt"
	"time"

	"pm-tools-backend/db"
	"pm-tools-backend/lib/billing"
	pdfexport "pm-tools-backend/lib/export/pdf"
	filestorage "pm-tools-backend/lib/file-storage"
	certnumber "pm-tools-backend/lib/milestone/cert-number"
	certstore "pm-tools-backend/lib/milestone/cert-store"
	milestonestore "pm-tools-backend/lib/milestone/store"
	projectstore "pm-tools-backend/lib/project/store"
	"pm-tools-backend/lib/rbac"
	spaceusersstore "pm-tools-backend/lib/space/users/store"
	"pm-tools-backend/lib/workflow"
	wfhistorystore "pm-tools-backend/lib/workflow/history-store"
	"pm-tools-backend/models"
	milestoneapimodels "pm-tools-backend/models/api/milestone"
	wfapimodels "pm-tools-backend/models/api/workflow"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(spaceID string, data milestoneapimodels.MilestoneData) (id string, err error)
	GetByID(spaceID, id string, actor workflow.Actor) (item milestoneapimodels.MilestoneView, err error)
	Update(spaceID, id string, data milestoneapimodels.MilestoneData) error
	Delete(spaceID, id string) error
	List(spaceID, projectID string, actor workflow.Actor) (list []milestoneapimodels.MilestoneView, err error)
	ExecuteCertAction(spaceID, milestoneID string, actor workflow.Actor, action models.WfAction, comment string) (item milestoneapimodels.CertificateView, hMsg string, err error)
	GetCertFile(ctx context.Context, spaceID, milestoneID string) (data []byte, rec *dbmodels.FileRecord, err error)
	CertHistory(spaceID, milestoneID string) (list []wfapimodels.HistoryView, err error)
	ListActuals(spaceID, milestoneID string) (list []milestoneapimodels.ActualView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        milestonestore.NewInstance(db.DB),
		certStore:    certstore.NewInstance(db.DB),
		projectStore: projectstore.NewInstance(db.DB),
		usersStore:   spaceusersstore.NewInstance(db.DB),
		historyStore: wfhistorystore.NewInstance(db.DB),
		certNumbers:  certnumber.NewInstance(db.DB),
		genPDF:       pdfexport.GenerateCertificate,
	}
	// выпуск номера и печатной формы после подписания обеими сторонами
	workflow.Hooks.On(models.KindMilestoneCertificate, models.CertStatusSigned, certSignedHook)
}

func certSignedHook(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error {
	h, ok := Instance.(impl)
	if !ok {
		return errors.New("обработчик этапов не инициализирован")
	}
	return h.finalizeCert(rec.GetSpaceID(), rec.GetID())
}

type impl struct {
	store        milestonestore.Provider
	certStore    certstore.Provider
	projectStore projectstore.Provider
	usersStore   spaceusersstore.Provider
	historyStore wfhistorystore.Provider
	certNumbers  certnumber.Provider
	genPDF       func(data pdfexport.CertificateData) (pdfFile []byte, err error)
}

func (i impl) Create(spaceID string, data milestoneapimodels.MilestoneData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	project, err := i.projectStore.GetByID(spaceID, data.ProjectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", errors.New("проект не найден")
	}
	rec := dbmodels.Milestone{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ProjectID:         data.ProjectID,
		Name:              data.Name,
		Description:       data.Description,
		BaselineBudget:    data.BaselineBudget,
		BaselineStartDate: data.BaselineStartDate,
		BaselineDueDate:   data.BaselineDueDate,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка создания этапа")
		return "", errors.New("ошибка создания этапа")
	}
	logger.
		WithField("rec_id", id).
		Info("создан этап проекта")
	return id, nil
}

func (i impl) GetByID(spaceID, id string, actor workflow.Actor) (milestoneapimodels.MilestoneView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return milestoneapimodels.MilestoneView{}, err
	}
	return i.toView(rec, actor), nil
}

// Update меняет описательные поля этапа. Базовый план после создания
// меняется только применением согласованного запроса на изменение.
func (i impl) Update(spaceID, id string, data milestoneapimodels.MilestoneData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	_, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"name":        data.Name,
		"description": data.Description,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления этапа")
		return errors.New("ошибка обновления этапа")
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
	if rec.Certificate != nil && rec.Certificate.Status != models.CertStatusNotRequested {
		return errors.New("нельзя удалить этап с запрошенным актом приёмки")
	}
	err = i.store.Delete(spaceID, id)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления этапа")
		return errors.New("ошибка удаления этапа")
	}
	logger.Info("этап удален")
	return nil
}

func (i impl) List(spaceID, projectID string, actor workflow.Actor) ([]milestoneapimodels.MilestoneView, error) {
	recList, err := i.store.List(spaceID, projectID)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			Error("ошибка получения списка этапов")
		return nil, errors.New("ошибка получения списка этапов")
	}
	result := make([]milestoneapimodels.MilestoneView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, i.toView(&rec, actor))
	}
	return result, nil
}

// ExecuteCertAction выполняет переход акта приёмки. Запись акта создаётся
// лениво первым запросом, дальше переходы идут под блокировкой строки:
// статус REQUESTED не отличает порядок подписей, и встречные подписи
// сторон без блокировки затирали бы друг друга.
func (i impl) ExecuteCertAction(spaceID, milestoneID string, actor workflow.Actor, action models.WfAction, comment string) (item milestoneapimodels.CertificateView, hMsg string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("milestone_id", milestoneID).
		WithField("user_id", actor.UserID).
		WithField("action", action)
	milestone, err := i.getRec(spaceID, milestoneID)
	if err != nil {
		return milestoneapimodels.CertificateView{}, "", err
	}
	var rec *dbmodels.MilestoneCertificate
	var res workflow.Result
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := certstore.NewInstance(tx)
		rec, err = store.GetByMilestoneID(spaceID, milestone.ID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения акта приёмки")
		}
		if rec == nil {
			newRec := dbmodels.MilestoneCertificate{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					SpaceID: spaceID,
				},
				MilestoneID: milestone.ID,
				Status:      workflow.InitialStatus(models.KindMilestoneCertificate),
			}
			_, err = store.Create(newRec)
			if err != nil {
				return errors.Wrap(err, "ошибка создания акта приёмки")
			}
		}
		rec, err = store.GetByMilestoneIDForUpdate(spaceID, milestone.ID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения акта приёмки")
		}
		if rec == nil {
			return errors.New("акт приёмки не найден")
		}
		ex := workflow.NewExecutor(store, rbac.Checker{}, wfhistorystore.NewInstance(tx))
		res, err = ex.Execute(rec, action, actor, workflow.Payload{Comment: comment})
		return err
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка выполнения действия над актом приёмки")
		return milestoneapimodels.CertificateView{}, "", err
	}
	logger.
		WithField("from_status", res.From).
		WithField("to_status", res.To).
		Info("выполнен переход акта приёмки")
	hMsg = workflow.Hooks.Dispatch(rec, res.From, res.To, actor)
	if hMsg == "" {
		// печатная форма могла появиться в хуке
		if updated, getErr := i.certStore.GetByID(spaceID, rec.ID); getErr == nil && updated != nil {
			rec = updated
		}
	}
	caps := workflow.Project(rec, actor, rbac.Checker{})
	return milestoneapimodels.CertificateConvert(*rec, caps), hMsg, nil
}

// finalizeCert выпускает номер акта, фиксирует дату применения и кладёт
// печатную форму в хранилище. Повторный вызов по уже оформленному акту
// ничего не делает, поэтому хук можно перезапускать.
func (i impl) finalizeCert(spaceID, certID string) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("cert_id", certID)
	rec, err := i.certStore.GetByID(spaceID, certID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения акта приёмки")
	}
	if rec == nil {
		return errors.New("акт приёмки не найден")
	}
	if rec.Status != models.CertStatusSigned {
		return errors.New("акт приёмки не подписан обеими сторонами")
	}
	if rec.FileID != nil {
		return nil
	}
	milestone, err := i.store.GetByID(spaceID, rec.MilestoneID)
	if err != nil || milestone == nil {
		return errors.New("этап акта приёмки не найден")
	}
	project, err := i.projectStore.GetByID(spaceID, milestone.ProjectID)
	if err != nil || project == nil {
		return errors.New("проект акта приёмки не найден")
	}
	number := rec.CertNumber
	if number == "" {
		number, err = i.certNumbers.Next(spaceID)
		if err != nil {
			return errors.Wrap(err, "ошибка выпуска номера акта")
		}
	}
	pdfFile, err := i.genPDF(pdfexport.CertificateData{
		Number:           number,
		ProjectName:      project.Name,
		MilestoneName:    milestone.Name,
		CustomerName:     project.CustomerName,
		SupplierName:     project.SupplierName,
		Amount:           milestone.ActualCost,
		Hours:            milestone.ActualHours,
		SupplierSigner:   i.signerName(rec.SupplierSignerID),
		CustomerSigner:   i.signerName(rec.CustomerSignerID),
		SupplierSignedAt: rec.SupplierSignedAt,
		CustomerSignedAt: rec.CustomerSignedAt,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка формирования печатной формы акта")
	}
	fileName := fmt.Sprintf("%s.pdf", number)
	fileID, err := filestorage.Instance.Upload(context.Background(), spaceID, fileName, "application/pdf", pdfFile)
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения печатной формы акта")
	}
	now := time.Now()
	updMap := map[string]interface{}{
		"cert_number": number,
		"applied_at":  now,
		"file_id":     fileID,
	}
	err = i.certStore.Update(spaceID, rec.ID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения реквизитов акта")
	}
	logger.
		WithField("cert_number", number).
		Info("акт приёмки оформлен")
	return nil
}

func (i impl) signerName(signerID *string) string {
	if signerID == nil {
		return ""
	}
	user, err := i.usersStore.GetByID(*signerID)
	if err != nil || user == nil {
		return ""
	}
	return user.GetFullName()
}

func (i impl) GetCertFile(ctx context.Context, spaceID, milestoneID string) ([]byte, *dbmodels.FileRecord, error) {
	rec, err := i.certStore.GetByMilestoneID(spaceID, milestoneID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения акта приёмки")
	}
	if rec == nil || rec.Status != models.CertStatusSigned {
		return nil, nil, errors.New("печатная форма акта недоступна")
	}
	if rec.FileID == nil {
		// оформление сорвалось после подписания, повторяем
		if err = i.finalizeCert(spaceID, rec.ID); err != nil {
			return nil, nil, err
		}
		rec, err = i.certStore.GetByID(spaceID, rec.ID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "ошибка получения акта приёмки")
		}
		if rec == nil || rec.FileID == nil {
			return nil, nil, errors.New("печатная форма акта недоступна")
		}
	}
	return filestorage.Instance.GetFile(ctx, spaceID, *rec.FileID)
}

func (i impl) CertHistory(spaceID, milestoneID string) ([]wfapimodels.HistoryView, error) {
	rec, err := i.certStore.GetByMilestoneID(spaceID, milestoneID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения акта приёмки")
	}
	if rec == nil {
		return []wfapimodels.HistoryView{}, nil
	}
	recList, err := i.historyStore.List(spaceID, models.KindMilestoneCertificate, rec.ID)
	if err != nil {
		return nil, errors.New("ошибка получения журнала переходов")
	}
	result := make([]wfapimodels.HistoryView, 0, len(recList))
	for _, row := range recList {
		result = append(result, wfapimodels.HistoryConvert(row))
	}
	return result, nil
}

func (i impl) ListActuals(spaceID, milestoneID string) ([]milestoneapimodels.ActualView, error) {
	recList, err := billing.Instance.ListActuals(spaceID, milestoneID)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("milestone_id", milestoneID).
			Error("ошибка получения фактов по этапу")
		return nil, errors.New("ошибка получения фактов по этапу")
	}
	result := make([]milestoneapimodels.ActualView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, milestoneapimodels.ActualConvert(rec))
	}
	return result, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Milestone, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		log.
			WithError(err).
			WithField("space_id", spaceID).
			WithField("rec_id", id).
			Error("ошибка получения этапа")
		return nil, errors.New("ошибка получения этапа")
	}
	if rec == nil {
		return nil, errors.New("этап не найден")
	}
	return rec, nil
}

func (i impl) toView(rec *dbmodels.Milestone, actor workflow.Actor) milestoneapimodels.MilestoneView {
	view := milestoneapimodels.MilestoneConvert(*rec)
	if rec.Certificate != nil {
		caps := workflow.Project(rec.Certificate, actor, rbac.Checker{})
		certView := milestoneapimodels.CertificateConvert(*rec.Certificate, caps)
		view.Certificate = &certView
	}
	return view
}
