package store

import (
	"context"
	"errors"

	"taskhub-service/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type TenantFilter struct {
	Status model.TenantStatus
	Plan   model.SubscriptionPlan
	Offset int
	Limit  int
}

type UserFilter struct {
	Role   model.Role
	Search string // case-insensitive match on full name or email
}

type ProjectFilter struct {
	Status model.ProjectStatus
	Search string // case-insensitive match on name
}

type TaskFilter struct {
	Status     model.TaskStatus
	Priority   model.TaskPriority
	AssignedTo string
	Search     string // case-insensitive match on title
}

type TenantStore interface {
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	LockByID(ctx context.Context, id string) (*model.Tenant, error) // row lock until the transaction ends
	Create(ctx context.Context, tenant *model.Tenant) error
	Update(ctx context.Context, tenant *model.Tenant) error
	List(ctx context.Context, filter TenantFilter) ([]model.TenantSummary, int64, error)
	Stats(ctx context.Context, id string) (*model.TenantStats, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmailInTenant(ctx context.Context, email, tenantID string) (*model.User, error)
	GetSuperAdminByEmail(ctx context.Context, email string) (*model.User, error)
	ListTenantAccountsByEmail(ctx context.Context, email string) ([]model.User, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	ListByTenant(ctx context.Context, tenantID string, filter UserFilter) ([]model.User, error)
}

type ProjectStore interface {
	GetByID(ctx context.Context, id string) (*model.Project, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
	ListByTenant(ctx context.Context, tenantID string, filter ProjectFilter) ([]model.ProjectSummary, error)
}

type TaskStore interface {
	GetByID(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	DeleteByProject(ctx context.Context, projectID string) error
	UnassignUser(ctx context.Context, userID string) error
	ListByProject(ctx context.Context, projectID string, filter TaskFilter) ([]model.TaskView, error)
}

type AuditLogStore interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}

// Provider hands out stores bound to one connection or transaction
type Provider interface {
	Tenants() TenantStore
	Users() UserStore
	Projects() ProjectStore
	Tasks() TaskStore
	AuditLogs() AuditLogStore
}

// TxRunner runs fn inside a transaction; fn's stores share it.
// A non-nil error from fn rolls everything back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Provider) error) error
}
