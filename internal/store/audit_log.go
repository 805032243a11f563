package store

import (
	"context"

	"taskhub-service/internal/model"

	"gorm.io/gorm"
)

type auditLogStore struct {
	db *gorm.DB
}

func (s *auditLogStore) Create(ctx context.Context, entry *model.AuditLog) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error, "create audit log")
}
