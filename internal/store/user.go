package store

import (
	"context"

	"taskhub-service/internal/model"

	"gorm.io/gorm"
)

type userStore struct {
	db *gorm.DB
}

func (s *userStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (s *userStore) GetByEmailInTenant(ctx context.Context, email, tenantID string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND tenant_id = ?", email, tenantID).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

func (s *userStore) GetSuperAdminByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND tenant_id IS NULL AND role = ?", email, model.RoleSuperAdmin).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "get super admin by email")
	}
	return &user, nil
}

func (s *userStore) ListTenantAccountsByEmail(ctx context.Context, email string) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND tenant_id IS NOT NULL", email).
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "list tenant accounts by email")
	}
	return users, nil
}

func (s *userStore) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	if err != nil {
		return 0, translate(err, "count users")
	}
	return count, nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error, "create user")
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	res := s.db.WithContext(ctx).Model(user).
		Select("full_name", "role", "is_active", "password_hash", "updated_at").
		Updates(user)
	if res.Error != nil {
		return translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) ListByTenant(ctx context.Context, tenantID string, filter UserFilter) ([]model.User, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where("(LOWER(full_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var users []model.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}
