package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"devhub-api/internal/service"
	"devhub-api/pkg/database"
	"devhub-api/pkg/logger"
	"devhub-api/prometheus"
)

// CreateTenant onboards a new business with its owner account.
// Founder only; tenant and owner commit in one transaction.
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("create")

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		BusinessName     string `json:"business_name"`
		BusinessEmail    string `json:"business_email"`
		BusinessPhone    string `json:"business_phone"`
		AddressLine1     string `json:"address_line1"`
		City             string `json:"city"`
		State            string `json:"state"`
		PostalCode       string `json:"postal_code"`
		Country          string `json:"country"`
		SubscriptionPlan string `json:"subscription_plan"`
		MaxUsers         int    `json:"max_users"`
		OwnerEmail       string `json:"owner_email"`
		OwnerFullName    string `json:"owner_full_name"`
		OwnerPassword    string `json:"owner_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.BusinessName == "" || req.OwnerEmail == "" || req.OwnerPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "business_name, owner_email and owner_password are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	tenants := service.NewTenantService(database.GetDB())
	tenant, owner, err := tenants.CreateTenant(ctx, service.CreateTenantInput{
		BusinessName:     req.BusinessName,
		BusinessEmail:    req.BusinessEmail,
		BusinessPhone:    req.BusinessPhone,
		AddressLine1:     req.AddressLine1,
		City:             req.City,
		State:            req.State,
		PostalCode:       req.PostalCode,
		Country:          req.Country,
		SubscriptionPlan: req.SubscriptionPlan,
		MaxUsers:         req.MaxUsers,
		OwnerEmail:       req.OwnerEmail,
		OwnerFullName:    req.OwnerFullName,
		OwnerPassword:    req.OwnerPassword,
	})
	if err != nil {
		log.Error("Failed to create tenant", zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("tenant")
	prometheus.RecordIDGenerated("user")
	log.Info("Tenant created",
		zap.String("system_id", tenant.SystemID),
		zap.String("business_name", tenant.BusinessName),
		zap.String("owner_id", owner.SystemID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant created successfully",
		"tenant":  tenant,
		"owner": echo.Map{
			"system_id":  owner.SystemID,
			"display_id": owner.DisplayID,
			"email":      owner.Email,
		},
	})
}

// ListTenants returns the tenants visible to the caller.
func ListTenants(c echo.Context) error {
	prometheus.RecordTenantOperation("list")

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	tenants := service.NewTenantService(database.GetDB())
	list, err := tenants.ListTenants(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	if ctx.IsFounder {
		prometheus.UpdateActiveTenants(len(list))
	}

	return c.JSON(http.StatusOK, echo.Map{"tenants": list})
}

// GetTenant returns one tenant visible to the caller.
func GetTenant(c echo.Context) error {
	prometheus.RecordTenantOperation("access")

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	tenants := service.NewTenantService(database.GetDB())
	tenant, err := tenants.GetTenant(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"tenant": tenant})
}

// DeactivateTenant marks a tenant inactive. Founder only.
func DeactivateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("deactivate")

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	tenants := service.NewTenantService(database.GetDB())
	if err := tenants.DeactivateTenant(ctx, c.Param("id")); err != nil {
		log.Error("Failed to deactivate tenant", zap.String("tenant_id", c.Param("id")), zap.Error(err))
		return respondServiceError(c, err)
	}

	log.Info("Tenant deactivated", zap.String("tenant_id", c.Param("id")))
	return c.JSON(http.StatusOK, echo.Map{"message": "Tenant deactivated"})
}
