package apiv1

import (
	"pm-tools-backend/controllers"
	timesheethandler "pm-tools-backend/lib/timesheet"
	"pm-tools-backend/middleware"
	"pm-tools-backend/models"
	apimodels "pm-tools-backend/models/api"
	timesheetapimodels "pm-tools-backend/models/api/timesheet"
	wfapimodels "pm-tools-backend/models/api/workflow"

	"github.com/gofiber/fiber/v2"
)

type timesheetApiController struct {
	controllers.BaseAPIController
}

func InitTimesheetApiRouters(app *fiber.App) {
	controller := timesheetApiController{}
	app.Route("timesheet", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("chain", controller.chain)
			idRoute.Get("history", controller.history)
			idRoute.Put("submit", controller.action(models.ActionSubmit))
			idRoute.Put("validate", controller.action(models.ActionValidate))
			idRoute.Put("approve", controller.action(models.ActionApprove))
			idRoute.Put("reject", controller.reject)
		})
	})
}

func (c *timesheetApiController) action(action models.WfAction) fiber.Handler {
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
		item, hMsg, err := timesheethandler.Instance.ExecuteAction(spaceID, id, getActor(ctx), action, payload.Comment)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения действия над табелем")
		}
		if hMsg != "" {
			return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
	}
}

// @Summary Отклонение табеля
// @Tags Табель
// @Description Отклонение табеля, причина обязательна
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id табеля"
// @Param	body body	 wfapimodels.RejectRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=timesheetapimodels.TimesheetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/{id}/reject [put]
func (c *timesheetApiController) reject(ctx *fiber.Ctx) error {
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
	item, hMsg, err := timesheethandler.Instance.ExecuteAction(spaceID, id, getActor(ctx), models.ActionReject, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения табеля")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Список табелей
// @Tags Табель
// @Description Список табелей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timesheetapimodels.TimesheetFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]timesheetapimodels.TimesheetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/list [post]
func (c *timesheetApiController) list(ctx *fiber.Ctx) error {
	var payload timesheetapimodels.TimesheetFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := timesheethandler.Instance.List(spaceID, getActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка табелей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание табеля
// @Tags Табель
// @Description Создание табеля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timesheetapimodels.TimesheetData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet [post]
func (c *timesheetApiController) create(ctx *fiber.Ctx) error {
	var payload timesheetapimodels.TimesheetData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := timesheethandler.Instance.Create(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания табеля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение табеля
// @Tags Табель
// @Description Получение табеля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id табеля"
// @Success 200 {object} apimodels.Response{data=timesheetapimodels.TimesheetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/{id} [get]
func (c *timesheetApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	item, err := timesheethandler.Instance.GetByID(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения табеля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Изменение табеля
// @Tags Табель
// @Description Изменение черновика табеля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id табеля"
// @Param	body body	 timesheetapimodels.TimesheetData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/{id} [put]
func (c *timesheetApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload timesheetapimodels.TimesheetData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = timesheethandler.Instance.Update(spaceID, id, getActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения табеля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление табеля
// @Tags Табель
// @Description Удаление черновика табеля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id табеля"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/{id} [delete]
func (c *timesheetApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = timesheethandler.Instance.Delete(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления табеля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Цепочка проверки табеля
// @Tags Табель
// @Description Пройденные шаги проверки табеля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id табеля"
// @Success 200 {object} apimodels.Response{data=[]wfapimodels.ChainStepView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/{id}/chain [get]
func (c *timesheetApiController) chain(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := timesheethandler.Instance.Chain(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения цепочки проверки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Журнал переходов табеля
// @Tags Табель
// @Description Журнал переходов табеля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id табеля"
// @Success 200 {object} apimodels.Response{data=[]wfapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/timesheet/{id}/history [get]
func (c *timesheetApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := timesheethandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала переходов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
