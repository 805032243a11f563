package store

import (
	"context"
	"time"

	"taskhub-service/internal/model"

	"gorm.io/gorm"
)

// taskOrder sorts by priority (high first), then due date with nulls last
const taskOrder = `CASE tasks.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC,
	CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END ASC,
	tasks.due_date ASC,
	tasks.created_at ASC`

type taskStore struct {
	db *gorm.DB
}

type taskRow struct {
	ID            string
	ProjectID     string
	Title         string
	Description   *string
	Status        model.TaskStatus
	Priority      model.TaskPriority
	AssignedTo    *string
	AssigneeName  *string
	AssigneeEmail *string
	DueDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r taskRow) view() model.TaskView {
	out := model.TaskView{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     model.FormatDate(r.DueDate),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.AssignedTo != nil && r.AssigneeName != nil {
		ref := &model.UserRef{ID: *r.AssignedTo, FullName: *r.AssigneeName}
		if r.AssigneeEmail != nil {
			ref.Email = *r.AssigneeEmail
		}
		out.AssignedTo = ref
	}
	return out
}

func (s *taskStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get task")
	}
	return &task, nil
}

func (s *taskStore) Create(ctx context.Context, task *model.Task) error {
	return translate(s.db.WithContext(ctx).Create(task).Error, "create task")
}

func (s *taskStore) Update(ctx context.Context, task *model.Task) error {
	res := s.db.WithContext(ctx).Model(task).
		Select("title", "description", "status", "priority", "assigned_to", "due_date", "updated_at").
		Updates(task)
	if res.Error != nil {
		return translate(res.Error, "update task")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *taskStore) DeleteByProject(ctx context.Context, projectID string) error {
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Task{}).Error
	return translate(err, "delete project tasks")
}

func (s *taskStore) UnassignUser(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_to = ?", userID).
		Update("assigned_to", nil).Error
	return translate(err, "unassign tasks")
}

func (s *taskStore) ListByProject(ctx context.Context, projectID string, filter TaskFilter) ([]model.TaskView, error) {
	q := s.db.WithContext(ctx).Table("tasks").
		Select(`tasks.id, tasks.project_id, tasks.title, tasks.description, tasks.status, tasks.priority,
			tasks.assigned_to, tasks.due_date, tasks.created_at, tasks.updated_at,
			users.full_name AS assignee_name, users.email AS assignee_email`).
		Joins("LEFT JOIN users ON users.id = tasks.assigned_to").
		Where("tasks.project_id = ?", projectID)
	if filter.Status != "" {
		q = q.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.AssignedTo != "" {
		q = q.Where("tasks.assigned_to = ?", filter.AssignedTo)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(tasks.title) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}

	var rows []taskRow
	if err := q.Order(taskOrder).Scan(&rows).Error; err != nil {
		return nil, translate(err, "list tasks")
	}

	out := make([]model.TaskView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}
