package store

import (
	"context"
	"time"

	"taskhub-service/internal/model"

	"gorm.io/gorm"
)

type projectStore struct {
	db *gorm.DB
}

type projectRow struct {
	ID                 string
	TenantID           string
	Name               string
	Description        *string
	Status             model.ProjectStatus
	CreatedBy          string
	CreatorName        *string
	TaskCount          int64
	CompletedTaskCount int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r projectRow) summary() model.ProjectSummary {
	out := model.ProjectSummary{
		ID:                 r.ID,
		TenantID:           r.TenantID,
		Name:               r.Name,
		Description:        r.Description,
		Status:             r.Status,
		TaskCount:          r.TaskCount,
		CompletedTaskCount: r.CompletedTaskCount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.CreatorName != nil {
		out.CreatedBy = &model.UserRef{ID: r.CreatedBy, FullName: *r.CreatorName}
	}
	return out
}

func (s *projectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get project")
	}
	return &project, nil
}

func (s *projectStore) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Project{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	if err != nil {
		return 0, translate(err, "count projects")
	}
	return count, nil
}

func (s *projectStore) Create(ctx context.Context, project *model.Project) error {
	return translate(s.db.WithContext(ctx).Create(project).Error, "create project")
}

func (s *projectStore) Update(ctx context.Context, project *model.Project) error {
	res := s.db.WithContext(ctx).Model(project).
		Select("name", "description", "status", "updated_at").
		Updates(project)
	if res.Error != nil {
		return translate(res.Error, "update project")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete project")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *projectStore) ListByTenant(ctx context.Context, tenantID string, filter ProjectFilter) ([]model.ProjectSummary, error) {
	q := s.db.WithContext(ctx).Table("projects").
		Select(`projects.id, projects.tenant_id, projects.name, projects.description, projects.status,
			projects.created_by, projects.created_at, projects.updated_at,
			users.full_name AS creator_name,
			(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS task_count,
			(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id AND tasks.status = ?) AS completed_task_count`,
			model.TaskCompleted).
		Joins("LEFT JOIN users ON users.id = projects.created_by").
		Where("projects.tenant_id = ?", tenantID)
	if filter.Status != "" {
		q = q.Where("projects.status = ?", filter.Status)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(projects.name) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}

	var rows []projectRow
	if err := q.Order("projects.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, translate(err, "list projects")
	}

	out := make([]model.ProjectSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary())
	}
	return out, nil
}
