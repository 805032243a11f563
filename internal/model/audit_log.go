package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction tags a mutating action in the audit trail
type AuditAction string

const (
	ActionCreateTenant     AuditAction = "CREATE_TENANT"
	ActionUpdateTenant     AuditAction = "UPDATE_TENANT"
	ActionCreateUser       AuditAction = "CREATE_USER"
	ActionUpdateUser       AuditAction = "UPDATE_USER"
	ActionDeleteUser       AuditAction = "DELETE_USER"
	ActionCreateProject    AuditAction = "CREATE_PROJECT"
	ActionUpdateProject    AuditAction = "UPDATE_PROJECT"
	ActionDeleteProject    AuditAction = "DELETE_PROJECT"
	ActionCreateTask       AuditAction = "CREATE_TASK"
	ActionUpdateTask       AuditAction = "UPDATE_TASK"
	ActionUpdateTaskStatus AuditAction = "UPDATE_TASK_STATUS"
	ActionLogin            AuditAction = "LOGIN"
	ActionLogout           AuditAction = "LOGOUT"
)

// AuditLog is an append-only record of a mutating action
type AuditLog struct {
	ID         string      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID   *string     `json:"tenantId" gorm:"type:uuid;index"`
	UserID     *string     `json:"userId" gorm:"type:uuid"`
	Action     AuditAction `json:"action" gorm:"type:varchar(50);not null"`
	EntityType string      `json:"entityType" gorm:"type:varchar(50);not null"`
	EntityID   *string     `json:"entityId" gorm:"type:varchar(64)"`
	IPAddress  *string     `json:"ipAddress" gorm:"type:varchar(64)"`
	CreatedAt  time.Time   `json:"createdAt" gorm:"index"`
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
