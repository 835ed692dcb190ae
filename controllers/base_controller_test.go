package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pm-tools-backend/lib/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSendErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"недостаток прав даёт 403", errors.Wrap(workflow.ErrUnauthorized, "действие submit"), http.StatusForbidden},
		{"конкурентное изменение даёт 409", workflow.ErrConcurrentModification, http.StatusConflict},
		{"прочие ошибки дают 400", errors.New("этап не найден"), http.StatusBadRequest},
		{"ошибка без причины даёт 400", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := BaseAPIController{}
			app := fiber.New()
			app.Get("/test", func(ctx *fiber.Ctx) error {
				return c.SendError(ctx, log.WithField("test", tc.name), tc.err, "ошибка операции")
			})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
			require.Nil(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
