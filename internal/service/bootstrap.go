package service

import (
	"context"
	"errors"
	"strings"

	"taskhub-service/internal/apperror"
	"taskhub-service/internal/model"
	"taskhub-service/internal/store"

	"go.uber.org/zap"
)

type SuperAdminInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

// EnsureSuperAdmin creates the super_admin account if no super_admin with
// that email exists. It reports whether an account was created.
func EnsureSuperAdmin(ctx context.Context, users store.UserStore, hasher PasswordHasher, in SuperAdminInput, logger *zap.Logger) (bool, error) {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := apperror.ValidateStruct(in); err != nil {
		return false, err
	}

	if _, err := users.GetSuperAdminByEmail(ctx, in.Email); err == nil {
		logger.Debug("Super admin already present", zap.String("email", in.Email))
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}

	logger.Info("Super admin created", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	return true, nil
}
