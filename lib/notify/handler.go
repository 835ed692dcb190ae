package notify

import (
	"fmt"
	"time"

	"pm-tools-backend/config"
	"pm-tools-backend/db"
	"pm-tools-backend/lib/smtp"
	pushdatastore "pm-tools-backend/lib/space/push/data-store"
	spaceusersstore "pm-tools-backend/lib/space/users/store"
	"pm-tools-backend/lib/workflow"
	connectionhub "pm-tools-backend/lib/ws/hub/connection-hub"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"
	wsmodels "pm-tools-backend/models/ws"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const pushCode = "WORKFLOW_TRANSITION"

// Provider уведомляет контрагентов о переходах статусов: письмо и пуш
// по ws, для пользователей не в сети событие откладывается.
type Provider interface {
	NotifyTransition(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore: spaceusersstore.NewInstance(db.DB),
		pushStore:  pushdatastore.NewInstance(db.DB),
	}
	workflow.Hooks.OnAny(TransitionHook())
}

// TransitionHook - подключение к диспетчеру переходов
func TransitionHook() workflow.HookFunc {
	return func(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error {
		return Instance.NotifyTransition(rec, from, to, actor)
	}
}

type impl struct {
	usersStore spaceusersstore.Provider
	pushStore  pushdatastore.Provider
}

func (h impl) NotifyTransition(rec workflow.Entity, from, to models.WfStatus, actor workflow.Actor) error {
	recipients, err := h.usersStore.ListByRoles(rec.GetSpaceID(), recipientRoles(actor.Role))
	if err != nil {
		return errors.Wrap(err, "ошибка получения получателей уведомления")
	}
	title := rec.WorkflowKind().ToHuman()
	msg := fmt.Sprintf("%s: статус изменён на «%s»", title, to.ToHuman())
	for _, user := range recipients {
		if user.ID == actor.UserID {
			continue
		}
		h.sendPush(user, title, msg)
		h.sendEmail(user, title, msg)
	}
	return nil
}

// уведомляются роли обеих сторон кроме роли инициатора
func recipientRoles(actorRole models.UserRole) []models.UserRole {
	roles := []models.UserRole{}
	for _, role := range []models.UserRole{models.SpaceAdminRole, models.SupplierRole, models.CustomerRole} {
		if role != actorRole {
			roles = append(roles, role)
		}
	}
	return roles
}

func (h impl) sendPush(user dbmodels.SpaceUser, title, msg string) {
	if connectionhub.Instance.IsConnected(user.ID) {
		connectionhub.Instance.SendMessage(wsmodels.ServerMessage{
			ToUserID: user.ID,
			Time:     time.Now().Format("02.01.2006 15:04:05"),
			Code:     pushCode,
			Title:    title,
			Msg:      msg,
		})
		return
	}
	err := h.pushStore.Create(dbmodels.PushData{
		UserID: user.ID,
		Code:   pushCode,
		Title:  title,
		Msg:    msg,
	})
	if err != nil {
		log.WithError(err).
			WithField("user_id", user.ID).
			Error("ошибка сохранения отложенного события")
	}
}

func (h impl) sendEmail(user dbmodels.SpaceUser, title, msg string) {
	if user.Email == "" {
		return
	}
	err := smtp.Instance.SendEMail(config.Conf.Smtp.Sender, user.Email, msg, title)
	if err != nil {
		log.WithError(err).
			WithField("user_id", user.ID).
			Error("ошибка отправки письма о переходе")
	}
}
