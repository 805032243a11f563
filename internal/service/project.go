package service

import (
	"context"
	"strings"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/audit"
	"taskhub-service/internal/model"
	"taskhub-service/internal/quota"
	"taskhub-service/internal/store"
	"taskhub-service/prometheus"

	"go.uber.org/zap"
)

type CreateProjectInput struct {
	Name        string              `json:"name" validate:"required,max=255"`
	Description *string             `json:"description"`
	Status      model.ProjectStatus `json:"status" validate:"omitempty,oneof=active completed archived"`
}

type UpdateProjectInput struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string              `json:"description"`
	Status      *model.ProjectStatus `json:"status" validate:"omitempty,oneof=active completed archived"`
}

type ListProjectsInput struct {
	TenantID string              `query:"tenantId" json:"tenantId" validate:"omitempty,uuid"`
	Status   model.ProjectStatus `query:"status" json:"status" validate:"omitempty,oneof=active completed archived"`
	Search   string              `query:"search" json:"search"`
}

type ProjectService interface {
	Create(ctx context.Context, caller access.Caller, in CreateProjectInput) (*model.Project, error)
	List(ctx context.Context, caller access.Caller, in ListProjectsInput) (*ProjectList, error)
	Get(ctx context.Context, caller access.Caller, id string) (*model.Project, error)
	Update(ctx context.Context, caller access.Caller, id string, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, caller access.Caller, id string) error
}

type projectService struct {
	stores store.Provider
	tx     store.TxRunner
	audit  audit.Sink
	logger *zap.Logger
}

func NewProjectService(stores store.Provider, tx store.TxRunner, sink audit.Sink, logger *zap.Logger) ProjectService {
	return &projectService{
		stores: stores,
		tx:     tx,
		audit:  sink,
		logger: logger,
	}
}

// Create adds a project to the caller's tenant under the maxProjects quota.
// super_admin has no tenant to create into.
func (s *projectService) Create(ctx context.Context, caller access.Caller, in CreateProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := access.Authorize(caller, access.Target{TenantID: caller.TenantID}, access.MemberWrite); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.ProjectActive
	}
	project := &model.Project{
		TenantID:    caller.TenantID,
		Name:        in.Name,
		Description: optionalText(in.Description),
		Status:      status,
		CreatedBy:   caller.UserID,
	}

	err := s.tx.WithTx(ctx, func(tx store.Provider) error {
		tenant, err := tx.Tenants().LockByID(ctx, caller.TenantID)
		if err != nil {
			return err
		}
		count, err := tx.Projects().CountByTenant(ctx, tenant.ID)
		if err != nil {
			return err
		}
		if err := quota.CheckCapacity(tenant, quota.Projects, count); err != nil {
			return err
		}
		return tx.Projects().Create(ctx, project)
	})
	if err != nil {
		return nil, apperror.From(err)
	}

	prometheus.RecordResourceOperation("project", "create")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   project.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionCreateProject,
		EntityType: "project",
		EntityID:   project.ID,
	})
	return project, nil
}

// List returns the tenant's projects, newest first. super_admin names the
// tenant with TenantID; everyone else always sees their own tenant.
func (s *projectService) List(ctx context.Context, caller access.Caller, in ListProjectsInput) (*ProjectList, error) {
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	tenantID := caller.TenantID
	if caller.IsSuperAdmin() {
		tenantID = strings.TrimSpace(in.TenantID)
		if tenantID == "" {
			return nil, apperror.Validation("tenantId query parameter is required")
		}
	}
	if err := authorizeScoped(caller, access.Target{TenantID: tenantID}, access.Read, "Tenant"); err != nil {
		return nil, err
	}

	projects, err := s.stores.Projects().ListByTenant(ctx, tenantID, store.ProjectFilter{
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &ProjectList{Projects: projects, Total: len(projects)}, nil
}

func (s *projectService) Get(ctx context.Context, caller access.Caller, id string) (*model.Project, error) {
	return s.scopedProject(ctx, caller, id, access.Read)
}

func (s *projectService) Update(ctx context.Context, caller access.Caller, id string, in UpdateProjectInput) (*model.Project, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	project, err := s.scopedProject(ctx, caller, id, access.OwnerWrite)
	if err != nil {
		return nil, err
	}
	if in.Name == nil && in.Description == nil && in.Status == nil {
		return nil, apperror.Validation("No valid fields to update")
	}

	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = optionalText(in.Description)
	}
	if in.Status != nil {
		project.Status = *in.Status
	}

	if err := s.stores.Projects().Update(ctx, project); err != nil {
		return nil, lookupErr(err, "Project")
	}

	prometheus.RecordResourceOperation("project", "update")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   project.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionUpdateProject,
		EntityType: "project",
		EntityID:   project.ID,
	})
	return project, nil
}

// Delete removes the project together with its tasks
func (s *projectService) Delete(ctx context.Context, caller access.Caller, id string) error {
	project, err := s.scopedProject(ctx, caller, id, access.OwnerWrite)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx store.Provider) error {
		if err := tx.Tasks().DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		return tx.Projects().Delete(ctx, project.ID)
	})
	if err != nil {
		return lookupErr(err, "Project")
	}

	prometheus.RecordResourceOperation("project", "delete")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   project.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionDeleteProject,
		EntityType: "project",
		EntityID:   project.ID,
	})
	s.logger.Info("Project deleted", zap.String("project_id", project.ID), zap.String("tenant_id", project.TenantID))
	return nil
}

func (s *projectService) scopedProject(ctx context.Context, caller access.Caller, id string, rule access.Rule) (*model.Project, error) {
	project, err := s.stores.Projects().GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Project")
	}
	target := access.Target{TenantID: project.TenantID, OwnerID: project.CreatedBy}
	if err := authorizeScoped(caller, target, rule, "Project"); err != nil {
		return nil, err
	}
	return project, nil
}
