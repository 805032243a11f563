package service

import (
	"time"

	"taskhub-service/internal/model"
)

// TenantRef is the tenant summary attached to a profile
type TenantRef struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Subdomain        string                 `json:"subdomain"`
	Status           model.TenantStatus     `json:"status"`
	SubscriptionPlan model.SubscriptionPlan `json:"subscriptionPlan"`
	MaxUsers         int                    `json:"maxUsers"`
	MaxProjects      int                    `json:"maxProjects"`
}

// Profile is the current user as returned by /auth/me
type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      model.Role `json:"role"`
	IsActive  bool       `json:"isActive"`
	Tenant    *TenantRef `json:"tenant"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Registration is the result of a tenant sign-up
type Registration struct {
	TenantID  string      `json:"tenantId"`
	Subdomain string      `json:"subdomain"`
	AdminUser *model.User `json:"adminUser"`
}

// Session is a successful login
type Session struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expiresIn"`
	User      *model.User `json:"user"`
}

// TenantDetails is a tenant with its resource counts
type TenantDetails struct {
	*model.Tenant
	Stats model.TenantStats `json:"stats"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalTenants int64 `json:"totalTenants"`
	Limit        int   `json:"limit"`
}

type TenantPage struct {
	Tenants    []model.TenantSummary `json:"tenants"`
	Pagination Pagination            `json:"pagination"`
}

type UserList struct {
	Users []model.User `json:"users"`
	Total int          `json:"total"`
}

type ProjectList struct {
	Projects []model.ProjectSummary `json:"projects"`
	Total    int                    `json:"total"`
}

type TaskList struct {
	Tasks []model.TaskView `json:"tasks"`
	Total int              `json:"total"`
}
