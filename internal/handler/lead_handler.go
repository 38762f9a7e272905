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

// ListLeads returns the caller's visible leads, optionally filtered by
// stage, source or search term.
func ListLeads(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	leads, err := crm.ListLeads(ctx, service.LeadFilter{
		Stage:  c.QueryParam("stage"),
		Source: c.QueryParam("source"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"leads": leads})
}

// GetLead returns one lead visible to the caller.
func GetLead(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	lead, err := crm.GetLead(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lead": lead})
}

// CreateLead creates a lead in the caller's tenant.
func CreateLead(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Company        string `json:"company"`
		ContactName    string `json:"contact_name"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		JobTitle       string `json:"job_title"`
		Source         string `json:"source"`
		Stage          string `json:"stage"`
		EstimatedValue int64  `json:"estimated_value"`
		AssignedTo     string `json:"assigned_to"`
		TenantID       string `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse lead creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Company == "" && req.ContactName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company or contact_name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	lead, err := crm.CreateLead(ctx, service.CreateLeadInput{
		Company:        req.Company,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		JobTitle:       req.JobTitle,
		Source:         req.Source,
		Stage:          req.Stage,
		EstimatedValue: req.EstimatedValue,
		AssignedTo:     req.AssignedTo,
		TenantID:       req.TenantID,
	})
	if err != nil {
		log.Error("Failed to create lead", zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("lead")
	log.Info("Lead created",
		zap.String("system_id", lead.SystemID),
		zap.String("tenant_id", lead.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{"lead": lead})
}

// ConvertLead turns a lead into a customer.
func ConvertLead(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	crm := service.NewCRMService(database.GetDB())
	customer, err := crm.ConvertLead(ctx, c.Param("id"))
	if err != nil {
		log.Error("Failed to convert lead", zap.String("lead_id", c.Param("id")), zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("customer")
	log.Info("Lead converted",
		zap.String("lead_id", c.Param("id")),
		zap.String("customer_id", customer.SystemID))

	return c.JSON(http.StatusCreated, echo.Map{"customer": customer})
}
