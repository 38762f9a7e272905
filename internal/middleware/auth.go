package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"devhub-api/internal/service"
	"devhub-api/pkg/database"
	"devhub-api/pkg/jwtutil"
	"devhub-api/pkg/logger"
	"devhub-api/prometheus"
)

// TenantContextKey is the echo context key the caller context is
// stored under.
const TenantContextKey = "tenant_context"

// AuthMiddleware validates the JWT token from the Authorization header
// and stores the caller's TenantContext in the request context. The
// context is built once here and never rebuilt mid-request.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Re-resolve the caller context from the database so role or
		// tenant changes take effect without waiting for token expiry.
		tenantSvc := service.NewTenantService(database.GetDB())
		ctx, err := tenantSvc.GetTenantContext(claims.UserID)
		if err != nil {
			log.Error("Failed to resolve caller context",
				zap.String("user_id", claims.UserID), zap.Error(err))
			prometheus.RecordAuthError("unknown_user")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set(TenantContextKey, ctx)
		c.Set("user_id", ctx.UserID)
		c.Set("email", claims.Email)

		if ctx.TenantID != nil {
			// Propagate tenant to downstream services
			c.Request().Header.Set("X-Tenant-ID", *ctx.TenantID)

			log.Debug("Request authenticated with tenant context",
				zap.String("tenant_id", *ctx.TenantID),
				zap.String("role", ctx.UserRole))
		}

		return next(c)
	}
}

// RequireTenantContext ensures the caller belongs to a tenant. The
// founder passes without one.
func RequireTenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, ok := c.Get(TenantContextKey).(service.TenantContext)
		if !ok {
			prometheus.RecordAuthError("missing_context")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		if !ctx.IsFounder && ctx.TenantID == nil {
			prometheus.RecordAuthError("tenant_required")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
		}
		return next(c)
	}
}

// RequireFeature gates a route group on the role/permission matrix.
func RequireFeature(feature string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, ok := c.Get(TenantContextKey).(service.TenantContext)
			if !ok {
				prometheus.RecordAuthError("missing_context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !ctx.CanAccessFeature(feature) {
				prometheus.RecordAuthError("access_denied")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			return next(c)
		}
	}
}
