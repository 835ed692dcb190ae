package apiv1

import (
	"fmt"
	"time"

	"pm-tools-backend/controllers"
	timesheethandler "pm-tools-backend/lib/timesheet"
	"pm-tools-backend/middleware"
	apimodels "pm-tools-backend/models/api"
	timesheetapimodels "pm-tools-backend/models/api/timesheet"

	"github.com/gofiber/fiber/v2"
)

type exportApiController struct {
	controllers.BaseAPIController
}

func InitExportApiRouters(app *fiber.App) {
	controller := exportApiController{}
	app.Route("export", func(router fiber.Router) {
		router.Post("timesheets", controller.timesheets)
	})
}

// @Summary Выгрузка табелей в Excel
// @Tags Экспорт
// @Description Выгрузка табелей в Excel по фильтру
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timesheetapimodels.TimesheetFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/export/timesheets [post]
func (c *exportApiController) timesheets(ctx *fiber.Ctx) error {
	var payload timesheetapimodels.TimesheetFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	data, err := timesheethandler.Instance.Export(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки табелей в Excel")
	}
	fileName := fmt.Sprintf("timesheets-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
