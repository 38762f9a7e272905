package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"devhub-api/internal/idgen"
	"devhub-api/internal/middleware"
	"devhub-api/internal/service"
	"devhub-api/pkg/logger"
	"devhub-api/prometheus"
)

// callerContext pulls the TenantContext the auth middleware stored.
func callerContext(c echo.Context) (service.TenantContext, bool) {
	ctx, ok := c.Get(middleware.TenantContextKey).(service.TenantContext)
	return ctx, ok
}

// respondUnauthenticated is the shared response for a missing caller
// context.
func respondUnauthenticated(c echo.Context) error {
	prometheus.RecordAuthError("missing_context")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}

// respondServiceError maps the service error taxonomy to HTTP. Access
// denials stay distinguishable from not-found; unexpected errors are
// logged and surfaced as a generic 500 without internal detail.
func respondServiceError(c echo.Context, err error) error {
	log := logger.FromContext(c)

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrAccessDenied):
		prometheus.RecordAuthError("access_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	case errors.Is(err, service.ErrTenantRequired):
		prometheus.RecordAuthError("tenant_required")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	case errors.Is(err, service.ErrFounderExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "founder account already exists"})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	case errors.Is(err, service.ErrUserLimitReached):
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant user limit reached"})
	case errors.Is(err, service.ErrTenantInactive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant is not active"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, idgen.ErrUnknownKind):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		log.Error("Unexpected service error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
