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

// ListInvoices returns the caller's visible invoices.
func ListInvoices(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	invoices := service.NewInvoiceService(database.GetDB())
	list, err := invoices.ListInvoices(ctx, service.InvoiceFilter{
		Status:     c.QueryParam("status"),
		CustomerID: c.QueryParam("customer_id"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": list})
}

// GetInvoice returns one invoice visible to the caller.
func GetInvoice(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	invoices := service.NewInvoiceService(database.GetDB())
	invoice, err := invoices.GetInvoice(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"invoice": invoice})
}

// CreateInvoice creates an invoice for a customer in the caller's
// tenant.
func CreateInvoice(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		CustomerID  string    `json:"customer_id"`
		ProjectID   string    `json:"project_id"`
		IssueDate   time.Time `json:"issue_date"`
		DueDate     time.Time `json:"due_date"`
		AmountCents int64     `json:"amount_cents"`
		Currency    string    `json:"currency"`
		TenantID    string    `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invoice creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CustomerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	invoices := service.NewInvoiceService(database.GetDB())
	invoice, err := invoices.CreateInvoice(ctx, service.CreateInvoiceInput{
		CustomerID:  req.CustomerID,
		ProjectID:   req.ProjectID,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		TenantID:    req.TenantID,
	})
	if err != nil {
		log.Error("Failed to create invoice", zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("invoice")
	log.Info("Invoice created",
		zap.String("system_id", invoice.SystemID),
		zap.String("tenant_id", invoice.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{"invoice": invoice})
}

// UpdateInvoiceStatus moves an invoice to a new status.
func UpdateInvoiceStatus(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	invoices := service.NewInvoiceService(database.GetDB())
	invoice, err := invoices.UpdateInvoiceStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"invoice": invoice})
}
