package store

import (
	"context"

	"taskhub-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tenantStore struct {
	db *gorm.DB
}

func (s *tenantStore) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get tenant")
	}
	return &tenant, nil
}

func (s *tenantStore) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "subdomain = ?", subdomain).Error; err != nil {
		return nil, translate(err, "get tenant by subdomain")
	}
	return &tenant, nil
}

func (s *tenantStore) LockByID(ctx context.Context, id string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "lock tenant")
	}
	return &tenant, nil
}

func (s *tenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	return translate(s.db.WithContext(ctx).Create(tenant).Error, "create tenant")
}

func (s *tenantStore) Update(ctx context.Context, tenant *model.Tenant) error {
	res := s.db.WithContext(ctx).Model(tenant).
		Select("name", "status", "subscription_plan", "max_users", "max_projects", "updated_at").
		Updates(tenant)
	if res.Error != nil {
		return translate(res.Error, "update tenant")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *tenantStore) List(ctx context.Context, filter TenantFilter) ([]model.TenantSummary, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			tx = tx.Where("tenants.status = ?", filter.Status)
		}
		if filter.Plan != "" {
			tx = tx.Where("tenants.subscription_plan = ?", filter.Plan)
		}
		return tx
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Tenant{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count tenants")
	}

	var rows []model.TenantSummary
	err := s.db.WithContext(ctx).Table("tenants").Scopes(scope).
		Select(`tenants.id, tenants.name, tenants.subdomain, tenants.status, tenants.subscription_plan, tenants.created_at,
			(SELECT COUNT(*) FROM users WHERE users.tenant_id = tenants.id) AS total_users,
			(SELECT COUNT(*) FROM projects WHERE projects.tenant_id = tenants.id) AS total_projects`).
		Order("tenants.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "list tenants")
	}
	return rows, total, nil
}

func (s *tenantStore) Stats(ctx context.Context, id string) (*model.TenantStats, error) {
	var stats model.TenantStats
	db := s.db.WithContext(ctx)
	if err := db.Model(&model.User{}).Where("tenant_id = ?", id).Count(&stats.TotalUsers).Error; err != nil {
		return nil, translate(err, "count tenant users")
	}
	if err := db.Model(&model.Project{}).Where("tenant_id = ?", id).Count(&stats.TotalProjects).Error; err != nil {
		return nil, translate(err, "count tenant projects")
	}
	if err := db.Model(&model.Task{}).Where("tenant_id = ?", id).Count(&stats.TotalTasks).Error; err != nil {
		return nil, translate(err, "count tenant tasks")
	}
	return &stats, nil
}
