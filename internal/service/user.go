package service

import (
	"context"
	"errors"
	"strings"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/audit"
	"taskhub-service/internal/model"
	"taskhub-service/internal/quota"
	"taskhub-service/internal/store"
	"taskhub-service/prometheus"

	"go.uber.org/zap"
)

var (
	addUserRule    = access.Rule{Roles: []model.Role{model.RoleTenantAdmin}, Mutation: true}
	updateUserRule = access.OwnerWrite
	deleteUserRule = access.AdminMutation
)

type AddUserInput struct {
	Email    string     `json:"email" validate:"required,email,max=255"`
	Password string     `json:"password" validate:"required,min=8"`
	FullName string     `json:"fullName" validate:"required,max=255"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=user tenant_admin"`
}

type UpdateUserInput struct {
	FullName *string     `json:"fullName" validate:"omitempty,min=1,max=255"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof=user tenant_admin"`
	IsActive *bool       `json:"isActive"`
}

type ListUsersInput struct {
	Search string     `query:"search" json:"search"`
	Role   model.Role `query:"role" json:"role" validate:"omitempty,oneof=super_admin tenant_admin user"`
}

type UserService interface {
	Add(ctx context.Context, caller access.Caller, tenantID string, in AddUserInput) (*model.User, error)
	List(ctx context.Context, caller access.Caller, tenantID string, in ListUsersInput) (*UserList, error)
	Update(ctx context.Context, caller access.Caller, userID string, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, caller access.Caller, userID string) error
}

type userService struct {
	stores store.Provider
	tx     store.TxRunner
	hasher PasswordHasher
	audit  audit.Sink
	logger *zap.Logger
}

func NewUserService(stores store.Provider, tx store.TxRunner, hasher PasswordHasher, sink audit.Sink, logger *zap.Logger) UserService {
	return &userService{
		stores: stores,
		tx:     tx,
		hasher: hasher,
		audit:  sink,
		logger: logger,
	}
}

// Add creates a user in the tenant. The user count is read and the row
// inserted while the tenant row is locked, so concurrent adds cannot
// overshoot maxUsers.
func (s *userService) Add(ctx context.Context, caller access.Caller, tenantID string, in AddUserInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	tenant, err := s.stores.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		return nil, lookupErr(err, "Tenant")
	}
	if err := authorizeScoped(caller, access.Target{TenantID: tenant.ID}, addUserRule, "Tenant"); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		TenantID:     &tenant.ID,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
	}

	err = s.tx.WithTx(ctx, func(tx store.Provider) error {
		locked, err := tx.Tenants().LockByID(ctx, tenant.ID)
		if err != nil {
			return err
		}
		count, err := tx.Users().CountByTenant(ctx, tenant.ID)
		if err != nil {
			return err
		}
		if err := quota.CheckCapacity(locked, quota.Users, count); err != nil {
			return err
		}

		if _, err := tx.Users().GetByEmailInTenant(ctx, user.Email, tenant.ID); err == nil {
			return emailTaken()
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, emailTaken()
		}
		return nil, apperror.From(err)
	}

	prometheus.RecordResourceOperation("user", "create")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   tenant.ID,
		UserID:     caller.UserID,
		Action:     model.ActionCreateUser,
		EntityType: "user",
		EntityID:   user.ID,
	})
	return user, nil
}

func (s *userService) List(ctx context.Context, caller access.Caller, tenantID string, in ListUsersInput) (*UserList, error) {
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	tenant, err := s.stores.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		return nil, lookupErr(err, "Tenant")
	}
	if err := authorizeScoped(caller, access.Target{TenantID: tenant.ID}, access.Read, "Tenant"); err != nil {
		return nil, err
	}

	users, err := s.stores.Users().ListByTenant(ctx, tenant.ID, store.UserFilter{
		Role:   in.Role,
		Search: strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserList{Users: users, Total: len(users)}, nil
}

// Update edits a user. Members may rename themselves; role and active flag
// are changed by a tenant_admin, never on their own account.
func (s *userService) Update(ctx context.Context, caller access.Caller, userID string, in UpdateUserInput) (*model.User, error) {
	if in.FullName != nil {
		trimmed := strings.TrimSpace(*in.FullName)
		in.FullName = &trimmed
	}
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.scopedUser(ctx, caller, userID, updateUserRule)
	if err != nil {
		return nil, err
	}
	if err := access.CheckSelfUpdate(caller, user.ID, in.Role != nil, in.IsActive != nil); err != nil {
		return nil, err
	}
	if in.FullName == nil && in.Role == nil && in.IsActive == nil {
		return nil, apperror.Validation("No valid fields to update")
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.stores.Users().Update(ctx, user); err != nil {
		return nil, lookupErr(err, "User")
	}

	prometheus.RecordResourceOperation("user", "update")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   user.TenantRef(),
		UserID:     caller.UserID,
		Action:     model.ActionUpdateUser,
		EntityType: "user",
		EntityID:   user.ID,
	})
	return user, nil
}

// Delete removes a user and unassigns their tasks in one transaction
func (s *userService) Delete(ctx context.Context, caller access.Caller, userID string) error {
	user, err := s.scopedUser(ctx, caller, userID, deleteUserRule)
	if err != nil {
		return err
	}
	if err := access.CheckSelfDelete(caller, user.ID); err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx store.Provider) error {
		if err := tx.Tasks().UnassignUser(ctx, user.ID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return lookupErr(err, "User")
	}

	prometheus.RecordResourceOperation("user", "delete")
	s.audit.Record(ctx, audit.Entry{
		TenantID:   user.TenantRef(),
		UserID:     caller.UserID,
		Action:     model.ActionDeleteUser,
		EntityType: "user",
		EntityID:   user.ID,
	})
	return nil
}

// scopedUser loads a user and runs the access gate with the user as owner.
// Accounts outside any tenant are only visible to super_admin.
func (s *userService) scopedUser(ctx context.Context, caller access.Caller, userID string, rule access.Rule) (*model.User, error) {
	user, err := s.stores.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "User")
	}
	if user.TenantID == nil && !caller.IsSuperAdmin() && user.ID != caller.UserID {
		return nil, apperror.NotFound("User not found")
	}
	target := access.Target{TenantID: user.TenantRef(), OwnerID: user.ID}
	if err := authorizeScoped(caller, target, rule, "User"); err != nil {
		return nil, err
	}
	return user, nil
}

func emailTaken() error {
	return apperror.Conflict(apperror.EmailTaken, "Email already exists in this tenant")
}
