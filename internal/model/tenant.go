package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Defaults applied to tenants created through registration
const (
	DefaultMaxUsers    = 5
	DefaultMaxProjects = 5
)

// Tenant is an isolated organization owning users, projects and tasks.
// Tenants are never hard-deleted.
type Tenant struct {
	ID               string           `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string           `json:"name" gorm:"type:varchar(255);not null"`
	Subdomain        string           `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Status           TenantStatus     `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan" gorm:"type:varchar(20);not null;default:'free';index"`
	MaxUsers         int              `json:"maxUsers" gorm:"not null"`
	MaxProjects      int              `json:"maxProjects" gorm:"not null"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (t *Tenant) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether members of the tenant may sign in
func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}

// TenantStats holds resource counts for one tenant
type TenantStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProjects int64 `json:"totalProjects"`
	TotalTasks    int64 `json:"totalTasks"`
}

// TenantSummary is a tenant row in the super-admin listing
type TenantSummary struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Subdomain        string           `json:"subdomain"`
	Status           TenantStatus     `json:"status"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan"`
	TotalUsers       int64            `json:"totalUsers"`
	TotalProjects    int64            `json:"totalProjects"`
	CreatedAt        time.Time        `json:"createdAt"`
}
