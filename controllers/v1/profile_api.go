package apiv1

import (
	"pm-tools-backend/controllers"
	spaceauthhandler "pm-tools-backend/lib/space/auth"
	spaceusershandler "pm-tools-backend/lib/space/users"
	"pm-tools-backend/middleware"
	apimodels "pm-tools-backend/models/api"
	spaceapimodels "pm-tools-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitProfileApiRouters(app *fiber.App) {
	controller := profileApiController{}
	app.Route("user_profile", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.get)
		router.Put("change_password", controller.changePassword)
	})
}

// @Summary Профиль текущего пользователя
// @Tags Профиль пользователя
// @Description Профиль текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user_profile [get]
func (c *profileApiController) get(ctx *fiber.Ctx) error {
	user, err := spaceauthhandler.Instance.Me(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}

// @Summary Смена пароля
// @Tags Профиль пользователя
// @Description Смена пароля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 spaceapimodels.ChangePasswordRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user_profile/change_password [put]
func (c *profileApiController) changePassword(ctx *fiber.Ctx) error {
	var payload spaceapimodels.ChangePasswordRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	err := spaceusershandler.Instance.ChangePassword(userID, payload.OldPassword, payload.NewPassword)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены пароля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
