package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User belongs to exactly one tenant, except super_admin which has none.
// Email is unique within a tenant, not globally.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID     *string   `json:"tenantId" gorm:"type:uuid;uniqueIndex:idx_users_tenant_email"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName     string    `json:"fullName" gorm:"type:varchar(255);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TenantRef returns the owning tenant id or "" for super_admin accounts
func (u *User) TenantRef() string {
	if u.TenantID == nil {
		return ""
	}
	return *u.TenantID
}

// UserRef is the short user shape embedded in project and task views
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
}
