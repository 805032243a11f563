package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire format of task due dates
const DateLayout = "2006-01-02"

// Task belongs to a project. TenantID copies the project's tenant for scoping.
type Task struct {
	ID          string       `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   string       `json:"projectId" gorm:"type:uuid;not null;index"`
	TenantID    string       `json:"tenantId" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" gorm:"type:varchar(255);not null"`
	Description *string      `json:"description" gorm:"type:text"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'todo'"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	AssignedTo  *string      `json:"assignedTo" gorm:"type:uuid;index"`
	DueDate     *time.Time   `json:"dueDate" gorm:"type:date"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TaskView is a task with its assignee expanded
type TaskView struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  *UserRef     `json:"assignedTo"`
	DueDate     *string      `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// FormatDate renders a due date in DateLayout, nil stays nil
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}
