package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/audit"
	"taskhub-service/internal/model"
	"taskhub-service/internal/store"
	"taskhub-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var taskWriteRule = access.Rule{
	Roles:    []model.Role{model.RoleSuperAdmin, model.RoleTenantAdmin, model.RoleUser},
	Mutation: true,
}

type CreateTaskInput struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description *string            `json:"description"`
	AssignedTo  *string            `json:"assignedTo"`
	Priority    model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string            `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskInput is a partial update. An empty assignedTo or dueDate
// clears the field.
type UpdateTaskInput struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string             `json:"description"`
	Status      *model.TaskStatus   `json:"status" validate:"omitempty,oneof=todo in_progress completed"`
	Priority    *model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string             `json:"assignedTo"`
	DueDate     *string             `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

func (in UpdateTaskInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil &&
		in.Priority == nil && in.AssignedTo == nil && in.DueDate == nil
}

type UpdateTaskStatusInput struct {
	Status model.TaskStatus `json:"status" validate:"required,oneof=todo in_progress completed"`
}

type ListTasksInput struct {
	Status     model.TaskStatus   `query:"status" json:"status" validate:"omitempty,oneof=todo in_progress completed"`
	Priority   model.TaskPriority `query:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo string             `query:"assignedTo" json:"assignedTo" validate:"omitempty,uuid"`
	Search     string             `query:"search" json:"search"`
}

type TaskService interface {
	Create(ctx context.Context, caller access.Caller, projectID string, in CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, caller access.Caller, projectID string, in ListTasksInput) (*TaskList, error)
	UpdateStatus(ctx context.Context, caller access.Caller, taskID string, in UpdateTaskStatusInput) (*model.Task, error)
	Update(ctx context.Context, caller access.Caller, taskID string, in UpdateTaskInput) (*model.Task, error)
}

type taskService struct {
	stores store.Provider
	audit  audit.Sink
	logger *zap.Logger
}

func NewTaskService(stores store.Provider, sink audit.Sink, logger *zap.Logger) TaskService {
	return &taskService{
		stores: stores,
		audit:  sink,
		logger: logger,
	}
}

func (s *taskService) Create(ctx context.Context, caller access.Caller, projectID string, in CreateTaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	project, err := s.scopedProject(ctx, caller, projectID, taskWriteRule)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	task := &model.Task{
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Title:       in.Title,
		Description: optionalText(in.Description),
		Status:      model.TaskTodo,
		Priority:    priority,
	}
	if task.AssignedTo, err = s.assignee(ctx, project.TenantID, in.AssignedTo); err != nil {
		return nil, err
	}
	if task.DueDate, err = parseDueDate(in.DueDate); err != nil {
		return nil, err
	}

	if err := s.stores.Tasks().Create(ctx, task); err != nil {
		return nil, apperror.Internal(err)
	}

	prometheus.RecordResourceOperation("task", "create")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   task.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionCreateTask,
		EntityType: "task",
		EntityID:   task.ID,
	})
	return task, nil
}

// List returns the project's tasks by priority, then due date with undated last
func (s *taskService) List(ctx context.Context, caller access.Caller, projectID string, in ListTasksInput) (*TaskList, error) {
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	project, err := s.scopedProject(ctx, caller, projectID, access.Read)
	if err != nil {
		return nil, err
	}

	tasks, err := s.stores.Tasks().ListByProject(ctx, project.ID, store.TaskFilter{
		Status:     in.Status,
		Priority:   in.Priority,
		AssignedTo: strings.TrimSpace(in.AssignedTo),
		Search:     strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &TaskList{Tasks: tasks, Total: len(tasks)}, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, caller access.Caller, taskID string, in UpdateTaskStatusInput) (*model.Task, error) {
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	task, err := s.scopedTask(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = in.Status

	if err := s.stores.Tasks().Update(ctx, task); err != nil {
		return nil, lookupErr(err, "Task")
	}

	prometheus.RecordResourceOperation("task", "update_status")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   task.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionUpdateTaskStatus,
		EntityType: "task",
		EntityID:   task.ID,
	})
	return task, nil
}

func (s *taskService) Update(ctx context.Context, caller access.Caller, taskID string, in UpdateTaskInput) (*model.Task, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if in.empty() {
		return nil, apperror.Validation("No valid fields to update")
	}
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	task, err := s.scopedTask(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = optionalText(in.Description)
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		if task.AssignedTo, err = s.assignee(ctx, task.TenantID, in.AssignedTo); err != nil {
			return nil, err
		}
	}
	if in.DueDate != nil {
		if task.DueDate, err = parseDueDate(in.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.stores.Tasks().Update(ctx, task); err != nil {
		return nil, lookupErr(err, "Task")
	}

	prometheus.RecordResourceOperation("task", "update")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   task.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionUpdateTask,
		EntityType: "task",
		EntityID:   task.ID,
	})
	return task, nil
}

func (s *taskService) scopedProject(ctx context.Context, caller access.Caller, projectID string, rule access.Rule) (*model.Project, error) {
	project, err := s.stores.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, lookupErr(err, "Project")
	}
	if err := authorizeScoped(caller, access.Target{TenantID: project.TenantID}, rule, "Project"); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *taskService) scopedTask(ctx context.Context, caller access.Caller, taskID string) (*model.Task, error) {
	task, err := s.stores.Tasks().GetByID(ctx, taskID)
	if err != nil {
		return nil, lookupErr(err, "Task")
	}
	if err := authorizeScoped(caller, access.Target{TenantID: task.TenantID}, taskWriteRule, "Task"); err != nil {
		return nil, err
	}
	return task, nil
}

// assignee resolves an assignedTo value; it must name a user of tenantID.
// nil or "" means unassigned.
func (s *taskService) assignee(ctx context.Context, tenantID string, assignedTo *string) (*string, error) {
	id := optionalText(assignedTo)
	if id == nil {
		return nil, nil
	}

	if uuid.Validate(*id) != nil {
		return nil, invalidAssignee()
	}
	user, err := s.stores.Users().GetByID(ctx, *id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && user.TenantRef() != tenantID) {
		return nil, invalidAssignee()
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &user.ID, nil
}

func invalidAssignee() error {
	return apperror.New(apperror.KindValidation, apperror.InvalidAssignee, "Assigned user not in tenant")
}

// parseDueDate reads a YYYY-MM-DD date as UTC midnight; nil or "" clears it
func parseDueDate(s *string) (*time.Time, error) {
	text := optionalText(s)
	if text == nil {
		return nil, nil
	}
	due, err := time.Parse(model.DateLayout, *text)
	if err != nil {
		return nil, apperror.Validation("dueDate must be a date in YYYY-MM-DD format")
	}
	return &due, nil
}
