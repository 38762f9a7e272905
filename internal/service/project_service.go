package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"devhub-api/internal/idgen"
	"devhub-api/internal/model"
)

// ProjectService manages tenant projects.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Status     string
	Priority   string
	CustomerID string
}

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name           string
	Description    string
	Status         string
	Priority       string
	CustomerID     string
	StartDate      *time.Time
	DueDate        *time.Time
	BudgetCents    int64
	EstimatedHours int
	TenantID       string
}

// ListProjects returns the caller's visible projects.
func (s *ProjectService) ListProjects(ctx TenantContext, filter ProjectFilter) ([]model.Project, error) {
	q := ScopeToTenant(s.db.Model(&model.Project{}), ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	var projects []model.Project
	if err := q.Order("system_id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a project visible to the caller.
func (s *ProjectService) GetProject(ctx TenantContext, systemID string) (*model.Project, error) {
	var project model.Project
	err := ScopeToTenant(s.db.Model(&model.Project{}), ctx).
		Where("system_id = ?", systemID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project in the caller's tenant. A referenced
// customer must belong to the same tenant; one in another tenant reads
// as not found.
func (s *ProjectService) CreateProject(ctx TenantContext, in CreateProjectInput) (*model.Project, error) {
	tenantID, err := resolveTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.ProjectStatusPlanned
	}
	priority := in.Priority
	if priority == "" {
		priority = model.ProjectPriorityMedium
	}

	var project model.Project
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.CustomerID != "" {
			var count int64
			if err := tx.Model(&model.Customer{}).
				Where("system_id = ? AND tenant_id = ?", in.CustomerID, tenantID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: customer %s", ErrNotFound, in.CustomerID)
			}
		}

		systemID, err := idgen.Next(tx, idgen.KindProject)
		if err != nil {
			return err
		}
		project = model.Project{
			SystemID:       systemID,
			TenantID:       tenantID,
			Name:           in.Name,
			Description:    in.Description,
			Status:         status,
			Priority:       priority,
			StartDate:      in.StartDate,
			DueDate:        in.DueDate,
			OwnerID:        ctx.UserID,
			BudgetCents:    in.BudgetCents,
			EstimatedHours: in.EstimatedHours,
		}
		if in.CustomerID != "" {
			project.CustomerID = &in.CustomerID
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProjectStatus moves a project to a new status.
func (s *ProjectService) UpdateProjectStatus(ctx TenantContext, systemID, status string) (*model.Project, error) {
	switch status {
	case model.ProjectStatusPlanned, model.ProjectStatusInProgress,
		model.ProjectStatusOnHold, model.ProjectStatusCompleted,
		model.ProjectStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: project status %q", ErrInvalidInput, status)
	}

	project, err := s.GetProject(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(project).Update("status", status).Error; err != nil {
		return nil, err
	}
	return project, nil
}
