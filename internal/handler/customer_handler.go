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

// ListCustomers returns the caller's visible customers.
func ListCustomers(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	customers, err := crm.ListCustomers(ctx, service.CustomerFilter{
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// GetCustomer returns one customer visible to the caller.
func GetCustomer(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	customer, err := crm.GetCustomer(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}

// CreateCustomer creates a customer in the caller's tenant.
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Company      string `json:"company"`
		ContactName  string `json:"contact_name"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		AddressLine1 string `json:"address_line1"`
		City         string `json:"city"`
		State        string `json:"state"`
		PostalCode   string `json:"postal_code"`
		Country      string `json:"country"`
		TenantID     string `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse customer creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Company == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	customer, err := crm.CreateCustomer(ctx, service.CreateCustomerInput{
		Company:      req.Company,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		TenantID:     req.TenantID,
	})
	if err != nil {
		log.Error("Failed to create customer", zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("customer")
	log.Info("Customer created",
		zap.String("system_id", customer.SystemID),
		zap.String("tenant_id", customer.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{"customer": customer})
}

// UpdateCustomer applies a partial update to a customer.
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Company     *string `json:"company"`
		ContactName *string `json:"contact_name"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse customer update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	customer, err := crm.UpdateCustomer(ctx, c.Param("id"), service.UpdateCustomerInput{
		Company:     req.Company,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}

// DeleteCustomer soft-deletes a customer.
func DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	if err := crm.DeleteCustomer(ctx, c.Param("id")); err != nil {
		return respondServiceError(c, err)
	}

	log.Info("Customer deleted", zap.String("system_id", c.Param("id")))
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted"})
}

// ListInteractions returns the interactions of one customer.
func ListInteractions(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	interactions, err := crm.ListInteractions(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"interactions": interactions})
}

// CreateInteraction records an interaction against a customer.
func CreateInteraction(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		InteractionType string `json:"interaction_type"`
		Subject         string `json:"subject"`
		Description     string `json:"description"`
		Outcome         string `json:"outcome"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse interaction request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	interaction, err := crm.CreateInteraction(ctx, c.Param("id"), service.CreateInteractionInput{
		InteractionType: req.InteractionType,
		Subject:         req.Subject,
		Description:     req.Description,
		Outcome:         req.Outcome,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("customer_interaction")
	return c.JSON(http.StatusCreated, echo.Map{"interaction": interaction})
}

// ListNotes returns the notes of one customer.
func ListNotes(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	notes, err := crm.ListNotes(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notes": notes})
}

// CreateNote attaches a note to a customer.
func CreateNote(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	note, err := crm.CreateNote(ctx, c.Param("id"), req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("customer_note")
	return c.JSON(http.StatusCreated, echo.Map{"note": note})
}
