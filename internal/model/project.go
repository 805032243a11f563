package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project belongs to a tenant; CreatedBy is a user of that same tenant
type Project struct {
	ID          string        `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    string        `json:"tenantId" gorm:"type:uuid;not null;index"`
	Name        string        `json:"name" gorm:"type:varchar(255);not null"`
	Description *string       `json:"description" gorm:"type:text"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedBy   string        `json:"createdBy" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectSummary is a project with its creator and task counters
type ProjectSummary struct {
	ID                 string        `json:"id"`
	TenantID           string        `json:"tenantId"`
	Name               string        `json:"name"`
	Description        *string       `json:"description"`
	Status             ProjectStatus `json:"status"`
	CreatedBy          *UserRef      `json:"createdBy"`
	TaskCount          int64         `json:"taskCount"`
	CompletedTaskCount int64         `json:"completedTaskCount"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}
