package apiv1

import (
	"fmt"
	"io"

	"pm-tools-backend/controllers"
	deliverablehandler "pm-tools-backend/lib/deliverable"
	"pm-tools-backend/middleware"
	"pm-tools-backend/models"
	apimodels "pm-tools-backend/models/api"
	deliverableapimodels "pm-tools-backend/models/api/deliverable"
	wfapimodels "pm-tools-backend/models/api/workflow"

	"github.com/gofiber/fiber/v2"
)

type deliverableApiController struct {
	controllers.BaseAPIController
}

func InitDeliverableApiRouters(app *fiber.App) {
	controller := deliverableApiController{}
	app.Route("deliverable", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Post("upload-file", controller.uploadFile)
			idRoute.Get("file", controller.getFile)
			idRoute.Get("chain", controller.chain)
			idRoute.Get("history", controller.history)
			idRoute.Put("submit", controller.action(models.ActionSubmit))
			idRoute.Put("validate", controller.action(models.ActionValidate))
			idRoute.Put("approve", controller.action(models.ActionApprove))
			idRoute.Put("reject", controller.reject)
			idRoute.Put("deliver", controller.action(models.ActionDeliver))
		})
	})
}

func (c *deliverableApiController) action(action models.WfAction) fiber.Handler {
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
		item, hMsg, err := deliverablehandler.Instance.ExecuteAction(spaceID, id, getActor(ctx), action, payload.Comment)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения действия над результатом работ")
		}
		if hMsg != "" {
			return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
	}
}

// @Summary Отклонение результата работ
// @Tags Результат работ
// @Description Отклонение результата работ, причина обязательна
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Param	body body	 wfapimodels.RejectRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=deliverableapimodels.DeliverableView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id}/reject [put]
func (c *deliverableApiController) reject(ctx *fiber.Ctx) error {
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
	item, hMsg, err := deliverablehandler.Instance.ExecuteAction(spaceID, id, getActor(ctx), models.ActionReject, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения результата работ")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarning(item, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Список результатов работ
// @Tags Результат работ
// @Description Список результатов работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 deliverableapimodels.DeliverableFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]deliverableapimodels.DeliverableView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/list [post]
func (c *deliverableApiController) list(ctx *fiber.Ctx) error {
	var payload deliverableapimodels.DeliverableFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := deliverablehandler.Instance.List(spaceID, getActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка результатов работ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание результата работ
// @Tags Результат работ
// @Description Создание результата работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 deliverableapimodels.DeliverableData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable [post]
func (c *deliverableApiController) create(ctx *fiber.Ctx) error {
	var payload deliverableapimodels.DeliverableData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := deliverablehandler.Instance.Create(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания результата работ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение результата работ
// @Tags Результат работ
// @Description Получение результата работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Success 200 {object} apimodels.Response{data=deliverableapimodels.DeliverableView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id} [get]
func (c *deliverableApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	item, err := deliverablehandler.Instance.GetByID(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения результата работ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Изменение результата работ
// @Tags Результат работ
// @Description Изменение черновика результата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Param	body body	 deliverableapimodels.DeliverableData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id} [put]
func (c *deliverableApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload deliverableapimodels.DeliverableData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = deliverablehandler.Instance.Update(spaceID, id, getActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения результата работ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление результата работ
// @Tags Результат работ
// @Description Удаление черновика результата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id} [delete]
func (c *deliverableApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = deliverablehandler.Instance.Delete(spaceID, id, getActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления результата работ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузить вложение
// @Tags Результат работ
// @Description Загрузить вложение результата работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Param   file				formData	file 	true 	"Вложение"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id}/upload-file [post]
func (c *deliverableApiController) uploadFile(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан файл"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	defer file.Close()
	fileData, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	spaceID := middleware.GetUserSpace(ctx)
	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	err = deliverablehandler.Instance.UploadFile(ctx.UserContext(), spaceID, id, getActor(ctx), fileHeader.Filename, contentType, fileData)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Скачать вложение
// @Tags Результат работ
// @Description Скачать вложение результата работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id}/file [get]
func (c *deliverableApiController) getFile(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	fileData, rec, err := deliverablehandler.Instance.GetFile(ctx.UserContext(), spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вложения")
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, rec.Name))
	return ctx.Status(fiber.StatusOK).Send(fileData)
}

// @Summary Цепочка проверки результата
// @Tags Результат работ
// @Description Пройденные шаги проверки результата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Success 200 {object} apimodels.Response{data=[]wfapimodels.ChainStepView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id}/chain [get]
func (c *deliverableApiController) chain(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := deliverablehandler.Instance.Chain(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения цепочки проверки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Журнал переходов результата
// @Tags Результат работ
// @Description Журнал переходов результата работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	id	path	string	true	"id результата"
// @Success 200 {object} apimodels.Response{data=[]wfapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/deliverable/{id}/history [get]
func (c *deliverableApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, err := deliverablehandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала переходов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
