package spaceauthhandler

import (
	"time"

	"pm-tools-backend/config"
	"pm-tools-backend/db"
	spaceusersstore "pm-tools-backend/lib/space/users/store"
	authutils "pm-tools-backend/lib/utils/auth-utils"
	authapimodels "pm-tools-backend/models/api/auth"
	spaceapimodels "pm-tools-backend/models/api/space"
	dbmodels "pm-tools-backend/models/db"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(email, password string) (resp *authapimodels.JWTResponse, err error)
	Me(ctx *fiber.Ctx) (user spaceapimodels.SpaceUser, err error)
	RefreshToken(refreshToken string) (resp *authapimodels.JWTResponse, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	usersStore spaceusersstore.Provider
}

func (i impl) Login(email, password string) (*authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.usersStore.FindByEmail(email)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка получения пользователя")
		return nil, errors.New("ошибка аутентификации")
	}
	if user == nil || !user.IsActive {
		return nil, errors.New("пользователь не найден или заблокирован")
	}
	if user.Password != authutils.GetMD5Hash(password) {
		return nil, errors.New("неверный пароль")
	}
	err = i.usersStore.Update(user.ID, map[string]interface{}{
		"last_login": time.Now(),
	})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления времени входа")
	}
	return i.tokenPair(user)
}

func (i impl) Me(ctx *fiber.Ctx) (spaceapimodels.SpaceUser, error) {
	claims := authutils.GetClaims(ctx)
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return spaceapimodels.SpaceUser{}, errors.New("пользователь не авторизован")
	}
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		return spaceapimodels.SpaceUser{}, errors.New("ошибка получения пользователя")
	}
	if user == nil {
		return spaceapimodels.SpaceUser{}, errors.New("пользователь не найден")
	}
	return user.ToModel(), nil
}

func (i impl) RefreshToken(refreshToken string) (*authapimodels.JWTResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return []byte(config.Conf.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token недействителен")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("refresh token недействителен")
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, errors.New("refresh token недействителен")
	}
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		return nil, errors.New("ошибка получения пользователя")
	}
	if user == nil || !user.IsActive {
		return nil, errors.New("пользователь не найден или заблокирован")
	}
	return i.tokenPair(user)
}

func (i impl) tokenPair(user *dbmodels.SpaceUser) (*authapimodels.JWTResponse, error) {
	accessToken, err := authutils.GetToken(user.ID, user.GetFullName(), user.SpaceID, user.Role.IsSpaceAdmin(), user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка выпуска токена")
	}
	refreshToken, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return nil, errors.Wrap(err, "ошибка выпуска refresh токена")
	}
	return &authapimodels.JWTResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
