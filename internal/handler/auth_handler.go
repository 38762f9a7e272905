package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"devhub-api/internal/idgen"
	"devhub-api/internal/service"
	"devhub-api/pkg/database"
	"devhub-api/pkg/jwtutil"
	"devhub-api/pkg/logger"
	"devhub-api/prometheus"
)

// Login authenticates an email/password pair and issues a JWT carrying
// the caller's tenant context.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	users := service.NewUserService(database.GetDB())
	user, err := users.Authenticate(req.Email, req.Password)
	if err != nil {
		log.Error("Login failed", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return respondServiceError(c, err)
	}

	// Resolve tenant name for the token, if the user belongs to one
	var tenantName string
	if user.TenantID != nil {
		tenants := service.NewTenantService(database.GetDB())
		caller, err := tenants.GetTenantContext(user.SystemID)
		if err == nil {
			if tenant, err := tenants.GetTenant(caller, *user.TenantID); err == nil {
				tenantName = tenant.BusinessName
			}
		}
	}

	token, err := jwtutil.GenerateToken(user.Email, user.SystemID, user.UserRole, user.IsFounder, user.TenantID, tenantName)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("user_id", user.SystemID),
		zap.String("role", user.UserRole))

	response := echo.Map{
		"token": token,
		"user": echo.Map{
			"system_id":  user.SystemID,
			"display_id": idgen.DisplayID(user.SystemID, user.IsFounder, user.UserRole),
			"email":      user.Email,
			"full_name":  user.FullName,
			"user_role":  user.UserRole,
		},
	}
	if user.TenantID != nil {
		response["tenant"] = echo.Map{
			"system_id": *user.TenantID,
			"name":      tenantName,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// RegisterFounder performs the one-time platform founder setup with
// the reserved id USR-000.
func RegisterFounder(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse founder registration", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	users := service.NewUserService(database.GetDB())
	founder, err := users.CreateFounder(service.CreateFounderInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		log.Error("Founder registration failed", zap.Error(err))
		return respondServiceError(c, err)
	}

	log.Info("Founder account created", zap.String("system_id", founder.SystemID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Founder account created",
		"user": echo.Map{
			"system_id":  founder.SystemID,
			"display_id": founder.DisplayID,
			"email":      founder.Email,
		},
	})
}

// GetProfile returns the authenticated user's own record.
func GetProfile(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	users := service.NewUserService(database.GetDB())
	user, err := users.GetUser(ctx, ctx.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"system_id":  user.SystemID,
		"display_id": idgen.DisplayID(user.SystemID, user.IsFounder, user.UserRole),
		"email":      user.Email,
		"full_name":  user.FullName,
		"user_role":  user.UserRole,
		"tenant_id":  user.TenantID,
		"is_founder": user.IsFounder,
	})
}
