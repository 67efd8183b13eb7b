package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"amanah-mortgage-backend/internal/usecase/account"
	"amanah-mortgage-backend/internal/usecase/application"
)

// OpsHandler hosts the scheduler entry point. In deployment a cron hits
// POST /ops/tick once a day; exposing it over HTTP keeps the sweep testable
// and re-runnable by operators.
type OpsHandler struct {
	apps  *application.Usecase
	accts *account.Usecase
}

func NewOpsHandler(apps *application.Usecase, accts *account.Usecase) *OpsHandler {
	return &OpsHandler{apps: apps, accts: accts}
}

func (h *OpsHandler) Tick(c echo.Context) error {
	ctx := c.Request().Context()

	expired, err := h.apps.ExpireOffers(ctx)
	if err != nil {
		return writeDomainError(c, err)
	}
	report, err := h.accts.RunTick(ctx)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"offers_expired":     expired,
		"accounts_evaluated": report.Evaluated,
		"status_changes":     report.StatusChanges,
		"failures":           report.Failures,
	})
}
