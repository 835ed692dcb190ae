package apiv1

import (
	"fmt"

	"pm-tools-backend/controllers"
	milestonehandler "pm-tools-backend/lib/milestone"
	"pm-tools-backend/middleware"
	"pm-tools-backend/models"
	apimodels "pm-tools-backend/models/api"
	milestoneapimodels "pm-tools-backend/models/api/milestone"
	wfapimodels "pm-tools-backend/models/api/workflow"

	"github.com/gofiber/fiber/v2"
)

type milestoneApiController struct {
	controllers.BaseAPIController
}

func InitMilestoneApiRouters(app *fiber.App) {
	controller := milestoneApiController{}
	app.Route("milestone", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("actuals", controller.actuals)
			idRoute.Route("certificate", func(certRoute fiber.Router) {
				certRoute.Put("request", controller.certAction(models.ActionRequestCert))
				certRoute.Put("sign_supplier", controller.certAction(models.ActionSignSupplier))
				certRoute.Put("sign_customer", controller.certAction(models.ActionSignCustomer))
				certRoute.Put("request_changes", controller.certRequestChanges)
				certRoute.Put("remediate", controller.certAction(models.ActionRemediate))
				certRoute.Get("file", controller.certFile)
				certRoute.Get("history", controller.certHistory)
			})
		})
	})
}

func (c *milestoneApiController) certAction(action models.WfAction) fiber.Handler {
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
		item, hMsg, err := milestonehandler.Instance.ExecuteCertAction(spaceID, id, getActor(ctx), action, payload.Comment)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения действия над актом приёмки")
		}
		if hMsg != "" {
			return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
	}
}

// @Summary Возврат акта на доработку
// @Tags Этап проекта
// @Description Возврат акта на доработку, причина обязательна
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Param	body body	 wfapimodels.RejectRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=milestoneapimodels.CertificateView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id}/certificate/request_changes [put]
func (c *milestoneApiController) certRequestChanges(ctx *fiber.Ctx) error {
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
	item, hMsg, err := milestonehandler.Instance.ExecuteCertAction(spaceID, id, getActor(ctx), models.ActionRequestChanges, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка возврата акта на доработку")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Список этапов
// @Tags Этап проекта
// @Description Список этапов проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 milestoneapimodels.MilestoneFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]milestoneapimodels.MilestoneView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/list [post]
func (c *milestoneApiController) list(ctx *fiber.Ctx) error {
	var payload milestoneapimodels.MilestoneFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := milestonehandler.Instance.List(spaceID, payload.ProjectID, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка этапов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание этапа
// @Tags Этап проекта
// @Description Создание этапа проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 milestoneapimodels.MilestoneData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone [post]
func (c *milestoneApiController) create(ctx *fiber.Ctx) error {
	var payload milestoneapimodels.MilestoneData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := milestonehandler.Instance.Create(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение этапа
// @Tags Этап проекта
// @Description Получение этапа проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Success 200 {object} apimodels.Response{data=milestoneapimodels.MilestoneView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id} [get]
func (c *milestoneApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	item, err := milestonehandler.Instance.GetByID(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Изменение этапа
// @Tags Этап проекта
// @Description Изменение описательных полей этапа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Param	body body	 milestoneapimodels.MilestoneData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id} [put]
func (c *milestoneApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload milestoneapimodels.MilestoneData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = milestonehandler.Instance.Update(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление этапа
// @Tags Этап проекта
// @Description Удаление этапа проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id} [delete]
func (c *milestoneApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = milestonehandler.Instance.Delete(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Факты по этапу
// @Tags Этап проекта
// @Description Утверждённые факты (часы и стоимость) в зачёт этапа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Success 200 {object} apimodels.Response{data=[]milestoneapimodels.ActualView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id}/actuals [get]
func (c *milestoneApiController) actuals(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := milestonehandler.Instance.ListActuals(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения фактов по этапу")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Печатная форма акта
// @Tags Этап проекта
// @Description Печатная форма подписанного акта приёмки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id}/certificate/file [get]
func (c *milestoneApiController) certFile(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	fileData, rec, err := milestonehandler.Instance.GetCertFile(ctx.UserContext(), spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения печатной формы акта")
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, rec.Name))
	return ctx.Status(fiber.StatusOK).Send(fileData)
}

// @Summary Журнал переходов акта
// @Tags Этап проекта
// @Description Журнал переходов акта приёмки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id этапа"
// @Success 200 {object} apimodels.Response{data=[]wfapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/milestone/{id}/certificate/history [get]
func (c *milestoneApiController) certHistory(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := milestonehandler.Instance.CertHistory(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала переходов акта")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
