package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chamados-service/internal/api/http"
	"github.com/spec-kit/chamados-service/internal/observability"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

func TestRequestLoggerRecordsConvertedErrorStatus(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, 0)

	app.Post("/fail", func(*fiber.Ctx) error {
		return apperrors.NewValidationError("id required", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/fail", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// the logger must observe the status the error handler wrote
	require.EqualValues(t, 1, metrics.RequestCount("/fail", fiber.MethodPost, http.StatusBadRequest))
	require.Zero(t, metrics.RequestCount("/fail", fiber.MethodPost, http.StatusOK))
}

func TestRequestLoggerRecordsSuccessStatus(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, 0)

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, metrics.RequestCount("/ok", fiber.MethodGet, http.StatusOK))
}
