package service

import (
	"context"
	"strings"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/audit"
	"taskhub-service/internal/model"
	"taskhub-service/internal/store"
	"taskhub-service/prometheus"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type UpdateTenantInput struct {
	Name             *string                 `json:"name" validate:"omitempty,min=1,max=255"`
	Status           *model.TenantStatus     `json:"status" validate:"omitempty,oneof=active inactive"`
	SubscriptionPlan *model.SubscriptionPlan `json:"subscriptionPlan" validate:"omitempty,oneof=free pro enterprise"`
	MaxUsers         *int                    `json:"maxUsers" validate:"omitempty,min=0"`
	MaxProjects      *int                    `json:"maxProjects" validate:"omitempty,min=0"`
}

func (in UpdateTenantInput) restricted() bool {
	return in.Status != nil || in.SubscriptionPlan != nil || in.MaxUsers != nil || in.MaxProjects != nil
}

type ListTenantsInput struct {
	Status           model.TenantStatus     `query:"status" json:"status" validate:"omitempty,oneof=active inactive"`
	SubscriptionPlan model.SubscriptionPlan `query:"subscriptionPlan" json:"subscriptionPlan" validate:"omitempty,oneof=free pro enterprise"`
	Page             int                    `query:"page" json:"page" validate:"min=0,max=100000"`
	Limit            int                    `query:"limit" json:"limit" validate:"min=0"`
}

type TenantService interface {
	Get(ctx context.Context, caller access.Caller, id string) (*TenantDetails, error)
	Update(ctx context.Context, caller access.Caller, id string, in UpdateTenantInput) (*model.Tenant, error)
	List(ctx context.Context, caller access.Caller, in ListTenantsInput) (*TenantPage, error)
}

type tenantService struct {
	stores store.Provider
	audit  audit.Sink
	logger *zap.Logger
}

func NewTenantService(stores store.Provider, sink audit.Sink, logger *zap.Logger) TenantService {
	return &tenantService{
		stores: stores,
		audit:  sink,
		logger: logger,
	}
}

func (s *tenantService) Get(ctx context.Context, caller access.Caller, id string) (*TenantDetails, error) {
	tenant, err := s.stores.Tenants().GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Tenant")
	}
	if err := authorizeScoped(caller, access.Target{TenantID: tenant.ID}, access.Read, "Tenant"); err != nil {
		return nil, err
	}

	stats, err := s.stores.Tenants().Stats(ctx, tenant.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &TenantDetails{Tenant: tenant, Stats: *stats}, nil
}

// Update changes a tenant. tenant_admin may only rename their own tenant;
// status, plan and limits are reserved to super_admin.
func (s *tenantService) Update(ctx context.Context, caller access.Caller, id string, in UpdateTenantInput) (*model.Tenant, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	tenant, err := s.stores.Tenants().GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Tenant")
	}
	if err := authorizeScoped(caller, access.Target{TenantID: tenant.ID}, access.AdminMutation, "Tenant"); err != nil {
		return nil, err
	}
	if !caller.IsSuperAdmin() && in.restricted() {
		prometheus.RecordAccessDenied(string(apperror.InsufficientRole))
		return nil, apperror.Forbidden(apperror.InsufficientRole, "Tenant admin can only update name")
	}
	if in.Name == nil && !in.restricted() {
		return nil, apperror.Validation("No valid fields to update")
	}

	if in.Name != nil {
		tenant.Name = *in.Name
	}
	if in.Status != nil {
		tenant.Status = *in.Status
	}
	if in.SubscriptionPlan != nil {
		tenant.SubscriptionPlan = *in.SubscriptionPlan
	}
	if in.MaxUsers != nil {
		tenant.MaxUsers = *in.MaxUsers
	}
	if in.MaxProjects != nil {
		tenant.MaxProjects = *in.MaxProjects
	}

	if err := s.stores.Tenants().Update(ctx, tenant); err != nil {
		return nil, lookupErr(err, "Tenant")
	}

	prometheus.RecordResourceOperation("tenant", "update")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   tenant.ID,
		UserID:     caller.UserID,
		Action:     model.ActionUpdateTenant,
		EntityType: "tenant",
		EntityID:   tenant.ID,
	})
	return tenant, nil
}

// List pages through all tenants, newest first. super_admin only.
func (s *tenantService) List(ctx context.Context, caller access.Caller, in ListTenantsInput) (*TenantPage, error) {
	if err := access.Authorize(caller, access.Target{}, access.SuperAdmin); err != nil {
		return nil, err
	}
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	switch {
	case limit < 1:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}

	tenants, total, err := s.stores.Tenants().List(ctx, store.TenantFilter{
		Status: in.Status,
		Plan:   in.SubscriptionPlan,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if tenants == nil {
		tenants = []model.TenantSummary{}
	}

	return &TenantPage{
		Tenants: tenants,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
			TotalTenants: total,
			Limit:        limit,
		},
	}, nil
}
