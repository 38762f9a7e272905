package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"devhub-api/internal/idgen"
	"devhub-api/internal/service"
	"devhub-api/pkg/database"
	"devhub-api/pkg/logger"
	"devhub-api/prometheus"
)

// CreateUser adds a user to a tenant. The caller needs user-management
// rights; the founder may supply an explicit tenant_id.
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Email      string `json:"email"`
		FullName   string `json:"full_name"`
		Password   string `json:"password"`
		UserRole   string `json:"user_role"`
		Department string `json:"department"`
		TenantID   string `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	users := service.NewUserService(database.GetDB())
	user, err := users.CreateUser(ctx, service.CreateUserInput{
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   req.Password,
		UserRole:   req.UserRole,
		Department: req.Department,
		TenantID:   req.TenantID,
	})
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("user")
	log.Info("User created",
		zap.String("system_id", user.SystemID),
		zap.String("role", user.UserRole))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user": echo.Map{
			"system_id":  user.SystemID,
			"display_id": idgen.DisplayID(user.SystemID, user.IsFounder, user.UserRole),
			"email":      user.Email,
			"full_name":  user.FullName,
			"user_role":  user.UserRole,
			"tenant_id":  user.TenantID,
		},
	})
}

// ListUsers returns the users visible to the caller.
func ListUsers(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	users := service.NewUserService(database.GetDB())
	list, err := users.ListUsers(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	out := make([]echo.Map, 0, len(list))
	for _, u := range list {
		out = append(out, echo.Map{
			"system_id":  u.SystemID,
			"display_id": idgen.DisplayID(u.SystemID, u.IsFounder, u.UserRole),
			"email":      u.Email,
			"full_name":  u.FullName,
			"user_role":  u.UserRole,
			"tenant_id":  u.TenantID,
			"is_active":  u.IsActive,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// GetUser returns one user visible to the caller.
func GetUser(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	users := service.NewUserService(database.GetDB())
	user, err := users.GetUser(ctx, c.Param("id"))
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
		"is_active":  user.IsActive,
	})
}
