package apiv1

import (
	"pm-tools-backend/controllers"
	variationhandler "pm-tools-backend/lib/variation"
	"pm-tools-backend/lib/workflow"
	"pm-tools-backend/middleware"
	"pm-tools-backend/models"
	apimodels "pm-tools-backend/models/api"
	variationapimodels "pm-tools-backend/models/api/variation"
	wfapimodels "pm-tools-backend/models/api/workflow"

	"github.com/gofiber/fiber/v2"
)

type variationApiController struct {
	controllers.BaseAPIController
}

func InitVariationApiRouters(app *fiber.App) {
	controller := variationApiController{}
	app.Route("variation", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("history", controller.history)
			idRoute.Put("submit", controller.action(models.ActionSubmit))
			idRoute.Put("sign_supplier", controller.action(models.ActionSignSupplier))
			idRoute.Put("sign_customer", controller.action(models.ActionSignCustomer))
			idRoute.Put("reject", controller.reject)
			idRoute.Put("revise", controller.action(models.ActionRevise))
			idRoute.Put("apply", controller.action(models.ActionApply))
		})
	})
}

func getActor(ctx *fiber.Ctx) workflow.Actor {
	return workflow.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetSpaceRole(ctx),
	}
}

// переходы различаются только действием, тело запроса общее
func (c *variationApiController) action(action models.WfAction) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := c.GetID(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		var payload wfapimodels.ActionRequest
		if len(ctx.Body()) > 0 {
			if err := c.BodyParser(ctx, &payload); err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
			}
		}
		spaceID := middleware.GetUserSpace(ctx)
		item, hMsg, err := variationhandler.Instance.ExecuteAction(spaceID, id, getActor(ctx), action, payload.Comment)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения действия над запросом на изменение")
		}
		if hMsg != "" {
			return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
	}
}

// @Summary Отклонение запроса на изменение
// @Tags Запрос на изменение
// @Description Отклонение запроса на изменение, причина обязательна
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id запроса"
// @Param	body body	 wfapimodels.RejectRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=variationapimodels.VariationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation/{id}/reject [put]
func (c *variationApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload wfapimodels.RejectRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	item, hMsg, err := variationhandler.Instance.ExecuteAction(spaceID, id, getActor(ctx), models.ActionReject, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения запроса на изменение")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Список запросов на изменение
// @Tags Запрос на изменение
// @Description Список запросов на изменение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 variationapimodels.VariationFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]variationapimodels.VariationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation/list [post]
func (c *variationApiController) list(ctx *fiber.Ctx) error {
	var payload variationapimodels.VariationFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := variationhandler.Instance.List(spaceID, getActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка запросов на изменение")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание запроса на изменение
// @Tags Запрос на изменение
// @Description Создание запроса на изменение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 variationapimodels.VariationData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation [post]
func (c *variationApiController) create(ctx *fiber.Ctx) error {
	var payload variationapimodels.VariationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := variationhandler.Instance.Create(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания запроса на изменение")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение запроса на изменение
// @Tags Запрос на изменение
// @Description Получение запроса на изменение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id запроса"
// @Success 200 {object} apimodels.Response{data=variationapimodels.VariationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation/{id} [get]
func (c *variationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	item, err := variationhandler.Instance.GetByID(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения запроса на изменение")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Изменение запроса на изменение
// @Tags Запрос на изменение
// @Description Изменение черновика запроса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id запроса"
// @Param	body body	 variationapimodels.VariationData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation/{id} [put]
func (c *variationApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload variationapimodels.VariationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = variationhandler.Instance.Update(spaceID, id, getActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения запроса на изменение")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление запроса на изменение
// @Tags Запрос на изменение
// @Description Удаление черновика запроса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id запроса"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation/{id} [delete]
func (c *variationApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = variationhandler.Instance.Delete(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления запроса на изменение")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Журнал переходов запроса
// @Tags Запрос на изменение
// @Description Журнал переходов запроса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id запроса"
// @Success 200 {object} apimodels.Response{data=[]wfapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/variation/{id}/history [get]
func (c *variationApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := variationhandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала переходов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
