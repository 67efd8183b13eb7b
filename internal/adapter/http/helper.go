package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
	appDomain "amanah-mortgage-backend/internal/domain/application"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// actorFrom reads the acting identity set by the idempotency middleware
// contract. Routes not behind the middleware may legitimately lack it.
func actorFrom(c echo.Context) string {
	actor := strings.TrimSpace(c.Request().Header.Get("Ax-Actor-Id"))
	if actor == "" {
		return "anonymous"
	}
	return actor
}

// writeDomainError maps sentinel domain errors to HTTP statuses. Unknown
// errors become 500 without leaking internals.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, appDomain.ErrNotFound) || errors.Is(err, acctDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, appDomain.ErrMissingDocument),
		errors.Is(err, appDomain.ErrIneligibleTransition),
		errors.Is(err, appDomain.ErrStageNotComplete),
		errors.Is(err, acctDomain.ErrIneligibleTransition),
		errors.Is(err, acctDomain.ErrInvalidScheduleState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, appDomain.ErrConcurrentModification) || errors.Is(err, acctDomain.ErrConcurrentModification):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "concurrent modification, retry"})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
