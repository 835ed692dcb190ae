package controllers

import (
	"pm-tools-backend/lib/workflow"
	apimodels "pm-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("uri", ctx.OriginalURL())
}

func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	logger.WithError(err).Error(hMsg)
	msg := hMsg
	if err != nil {
		msg = err.Error()
	}
	return ctx.Status(errorStatus(err)).JSON(apimodels.NewError(msg))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, workflow.ErrConcurrentModification):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
