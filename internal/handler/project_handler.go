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

// ListProjects returns the caller's visible projects.
func ListProjects(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	projects := service.NewProjectService(database.GetDB())
	list, err := projects.ListProjects(ctx, service.ProjectFilter{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		CustomerID: c.QueryParam("customer_id"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"projects": list})
}

// GetProject returns one project visible to the caller.
func GetProject(c echo.Context) error {
	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	projects := service.NewProjectService(database.GetDB())
	project, err := projects.GetProject(ctx, c.Param("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"project": project})
}

// CreateProject creates a project in the caller's tenant.
func CreateProject(c echo.Context) error {
	log := logger.FromContext(c)

	ctx, ok := callerContext(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req struct {
		Name           string     `json:"name"`
		Description    string     `json:"description"`
		Status         string     `json:"status"`
		Priority       string     `json:"priority"`
		CustomerID     string     `json:"customer_id"`
		StartDate      *time.Time `json:"start_date"`
		DueDate        *time.Time `json:"due_date"`
		BudgetCents    int64      `json:"budget_cents"`
		EstimatedHours int        `json:"estimated_hours"`
		TenantID       string     `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse project creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	projects := service.NewProjectService(database.GetDB())
	project, err := projects.CreateProject(ctx, service.CreateProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		CustomerID:     req.CustomerID,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
		BudgetCents:    req.BudgetCents,
		EstimatedHours: req.EstimatedHours,
		TenantID:       req.TenantID,
	})
	if err != nil {
		log.Error("Failed to create project", zap.Error(err))
		return respondServiceError(c, err)
	}

	prometheus.RecordIDGenerated("project")
	log.Info("Project created",
		zap.String("system_id", project.SystemID),
		zap.String("tenant_id", project.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{"project": project})
}

// UpdateProjectStatus moves a project to a new status.
func UpdateProjectStatus(c echo.Context) error {
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

	projects := service.NewProjectService(database.GetDB())
	project, err := projects.UpdateProjectStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"project": project})
}
