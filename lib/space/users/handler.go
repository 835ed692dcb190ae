package spaceusershandler

import (
	"fmt"

	"pm-tools-backend/db"
	spaceusersstore "pm-tools-backend/lib/space/users/store"
	authutils "pm-tools-backend/lib/utils/auth-utils"
	"pm-tools-backend/models"
	spaceapimodels "pm-tools-backend/models/api/space"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	CreateUser(spaceID string, request spaceapimodels.SpaceUserData) (id string, err error)
	UpdateUser(spaceID, userID string, request spaceapimodels.SpaceUserData) error
	DeleteUser(spaceID, userID string) error
	GetListUsers(spaceID string, page, limit int) (usersList []spaceapimodels.SpaceUser, err error)
	GetByID(spaceID, userID string) (user spaceapimodels.SpaceUser, err error)
	ChangePassword(userID, oldPassword, newPassword string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		spaceUserStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	spaceUserStore spaceusersstore.Provider
}

func (i impl) GetByID(spaceID, userID string) (spaceapimodels.SpaceUser, error) {
	rec, err := i.getRec(spaceID, userID)
	if err != nil {
		return spaceapimodels.SpaceUser{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) CreateUser(spaceID string, request spaceapimodels.SpaceUserData) (string, error) {
	logger := log.WithField("space_id", spaceID)
	role, ok := models.ParseRole(request.Role)
	if !ok {
		return "", errors.New("неизвестная роль пользователя")
	}
	userExist, err := i.spaceUserStore.ExistByEmail(request.Email)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка проверки уже существующего пользователя")
		return "", err
	}
	if userExist {
		return "", errors.New("пользователь с такой почтой уже существует")
	}
	rec := dbmodels.SpaceUser{
		Password:    authutils.GetMD5Hash(request.Password),
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		Email:       request.Email,
		IsActive:    true,
		PhoneNumber: request.PhoneNumber,
		SpaceID:     spaceID,
		Role:        role,
	}
	id, err := i.spaceUserStore.Create(rec)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка создания пользователя")
		return "", err
	}
	logger.
		WithField("user_id", id).
		Info("создан пользователь пространства")
	return id, nil
}

func (i impl) UpdateUser(spaceID, userID string, request spaceapimodels.SpaceUserData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	rec, err := i.getRec(spaceID, userID)
	if err != nil {
		return err
	}
	role, ok := models.ParseRole(request.Role)
	if !ok {
		return errors.New("неизвестная роль пользователя")
	}
	updMap := map[string]interface{}{
		"first_name":   request.FirstName,
		"last_name":    request.LastName,
		"phone_number": request.PhoneNumber,
		"role":         role,
	}
	if request.Password != "" {
		updMap["password"] = authutils.GetMD5Hash(request.Password)
	}
	if rec.Email != request.Email {
		userExist, err := i.spaceUserStore.ExistByEmail(request.Email)
		if err != nil {
			return err
		}
		if userExist {
			return errors.New("пользователь с такой почтой уже существует")
		}
		updMap["email"] = request.Email
	}
	err = i.spaceUserStore.Update(userID, updMap)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка обновления пользователя")
		return err
	}
	return nil
}

func (i impl) DeleteUser(spaceID, userID string) error {
	_, err := i.getRec(spaceID, userID)
	if err != nil {
		return err
	}
	err = i.spaceUserStore.Delete(userID)
	if err != nil {
		log.
			WithField("space_id", spaceID).
			WithField("user_id", userID).
			WithError(err).
			Error("ошибка удаления пользователя")
		return err
	}
	return nil
}

func (i impl) GetListUsers(spaceID string, page, limit int) (usersList []spaceapimodels.SpaceUser, err error) {
	list, err := i.spaceUserStore.GetList(spaceID, page, limit)
	if err != nil {
		log.
			WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения списка пользователей")
		return nil, err
	}
	for _, user := range list {
		usersList = append(usersList, user.ToModel())
	}
	return usersList, nil
}

func (i impl) ChangePassword(userID, oldPassword, newPassword string) error {
	logger := log.WithField("user_id", userID)
	rec, err := i.spaceUserStore.GetByID(userID)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка поиска пользователя")
		return errors.New("ошибка смены пароля")
	}
	if rec == nil {
		return errors.New("пользователь не найден")
	}
	if rec.Password != authutils.GetMD5Hash(oldPassword) {
		return errors.New("неверный текущий пароль")
	}
	err = i.spaceUserStore.Update(userID, map[string]interface{}{
		"password": authutils.GetMD5Hash(newPassword),
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка смены пароля")
		return errors.New("ошибка смены пароля")
	}
	logger.Info("пароль изменен")
	return nil
}

func (i impl) getRec(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	rec, err := i.spaceUserStore.GetByID(userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("ошибка поиска пользователя")
		return nil, err
	}
	if rec == nil || rec.SpaceID != spaceID {
		return nil, errors.New("пользователь не найден")
	}
	return rec, nil
}
