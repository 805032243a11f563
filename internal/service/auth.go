package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/audit"
	"taskhub-service/internal/model"
	"taskhub-service/internal/store"
	"taskhub-service/pkg/password"
	"taskhub-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterTenantInput struct {
	TenantName    string `json:"tenantName" validate:"required,max=255"`
	Subdomain     string `json:"subdomain" validate:"required,subdomain"`
	AdminEmail    string `json:"adminEmail" validate:"required,email,max=255"`
	AdminPassword string `json:"adminPassword" validate:"required,min=8"`
	AdminFullName string `json:"adminFullName" validate:"required,max=255"`
}

func (in *RegisterTenantInput) normalize() {
	in.TenantName = strings.TrimSpace(in.TenantName)
	in.Subdomain = strings.ToLower(strings.TrimSpace(in.Subdomain))
	in.AdminEmail = normalizeEmail(in.AdminEmail)
	in.AdminFullName = strings.TrimSpace(in.AdminFullName)
}

type LoginInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	TenantSubdomain string `json:"tenantSubdomain"`
}

type AuthService interface {
	RegisterTenant(ctx context.Context, in RegisterTenantInput) (*Registration, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Me(ctx context.Context, caller access.Caller) (*Profile, error)
	Logout(ctx context.Context, caller access.Caller) error
}

type authService struct {
	stores store.Provider
	tx     store.TxRunner
	hasher PasswordHasher
	tokens TokenIssuer
	audit  audit.Sink
	logger *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(stores store.Provider, tx store.TxRunner, hasher PasswordHasher, tokens TokenIssuer, sink audit.Sink, logger *zap.Logger) AuthService {
	return &authService{
		stores: stores,
		tx:     tx,
		hasher: hasher,
		tokens: tokens,
		audit:  sink,
		logger: logger,
	}
}

// RegisterTenant creates a tenant and its first tenant_admin in one transaction
func (s *authService) RegisterTenant(ctx context.Context, in RegisterTenantInput) (*Registration, error) {
	in.normalize()
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.stores.Tenants().GetBySubdomain(ctx, in.Subdomain); err == nil {
		return nil, subdomainTaken()
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := s.hasher.Hash(in.AdminPassword)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	tenant := &model.Tenant{
		Name:             in.TenantName,
		Subdomain:        in.Subdomain,
		Status:           model.TenantActive,
		SubscriptionPlan: model.PlanFree,
		MaxUsers:         model.DefaultMaxUsers,
		MaxProjects:      model.DefaultMaxProjects,
	}
	admin := &model.User{
		Email:        in.AdminEmail,
		PasswordHash: hash,
		FullName:     in.AdminFullName,
		Role:         model.RoleTenantAdmin,
		IsActive:     true,
	}

	err = s.tx.WithTx(ctx, func(tx store.Provider) error {
		if err := tx.Tenants().Create(ctx, tenant); err != nil {
			return err
		}
		admin.TenantID = &tenant.ID
		return tx.Users().Create(ctx, admin)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, subdomainTaken()
		}
		s.logger.Error("Tenant registration failed", zap.String("subdomain", in.Subdomain), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	prometheus.RecordRegistration()
	s.audit.Record(ctx, audit.Entry{
		TenantID:   tenant.ID,
		UserID:     admin.ID,
		Action:     model.ActionCreateTenant,
		EntityType: "tenant",
		EntityID:   tenant.ID,
	})
	s.logger.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID),
		zap.String("subdomain", tenant.Subdomain))

	return &Registration{TenantID: tenant.ID, Subdomain: tenant.Subdomain, AdminUser: admin}, nil
}

// Login resolves the account by (email, tenant) and issues a session token.
// Super admins are matched by email alone and need no subdomain.
func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.TenantSubdomain = strings.ToLower(strings.TrimSpace(in.TenantSubdomain))
	if err := apperror.ValidateStruct(in); err != nil {
		return nil, err
	}

	session, err := s.login(ctx, in)
	if err != nil {
		result := string(apperror.ReasonOf(err))
		if result == "" {
			result = "error"
		}
		prometheus.RecordLogin(result)
		return nil, err
	}
	prometheus.RecordLogin("success")
	return session, nil
}

func (s *authService) login(ctx context.Context, in LoginInput) (*Session, error) {
	user, tenant, err := s.findAccount(ctx, in.Email, in.TenantSubdomain)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if in.TenantSubdomain == "" {
			if err := s.checkTenantAccounts(ctx, in.Email, in.Password); err != nil {
				return nil, err
			}
		} else {
			s.compareDummy(in.Password)
		}
		return nil, invalidCredentials()
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, invalidCredentials()
		}
		return nil, apperror.Internal(err)
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.KindForbidden, apperror.AccountInactive, "Account inactive")
	}

	if user.Role != model.RoleSuperAdmin {
		if tenant == nil {
			return nil, tenantRequired()
		}
		if !tenant.IsActive() {
			return nil, apperror.New(apperror.KindForbidden, apperror.TenantInactive, "Tenant inactive")
		}
		if tenant.ID != user.TenantRef() {
			return nil, apperror.New(apperror.KindForbidden, apperror.TenantMismatch, "User does not belong to this tenant")
		}
	}

	token, err := s.tokens.GenerateToken(user.ID, user.TenantRef(), string(user.Role), user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		TenantID:   user.TenantRef(),
		UserID:     user.ID,
		Action:     model.ActionLogin,
		EntityType: "user",
		EntityID:   user.ID,
	})

	return &Session{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}

// findAccount returns the candidate account and the tenant named by subdomain.
// A nil user with a nil error means no account matched.
func (s *authService) findAccount(ctx context.Context, email, subdomain string) (*model.User, *model.Tenant, error) {
	if subdomain == "" {
		user, err := s.superAdmin(ctx, email)
		return user, nil, err
	}

	tenant, err := s.stores.Tenants().GetBySubdomain(ctx, subdomain)
	switch {
	case errors.Is(err, store.ErrNotFound):
		tenant = nil
	case err != nil:
		return nil, nil, apperror.Internal(err)
	}

	if tenant != nil {
		user, err := s.stores.Users().GetByEmailInTenant(ctx, email, tenant.ID)
		switch {
		case err == nil:
			return user, tenant, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, nil, apperror.Internal(err)
		}
	}

	user, err := s.superAdmin(ctx, email)
	if err != nil || user != nil {
		return user, tenant, err
	}
	if tenant == nil {
		return nil, nil, apperror.New(apperror.KindNotFound, apperror.TenantNotFound, "Tenant not found")
	}
	return nil, tenant, nil
}

// checkTenantAccounts handles a login without subdomain for an email that is
// not a super_admin. Only a matching password reveals that the account needs
// a tenant; otherwise nil is returned and the caller reports bad credentials.
func (s *authService) checkTenantAccounts(ctx context.Context, email, plain string) error {
	accounts, err := s.stores.Users().ListTenantAccountsByEmail(ctx, email)
	if err != nil {
		return apperror.Internal(err)
	}
	if len(accounts) == 0 {
		s.compareDummy(plain)
		return nil
	}

	for _, account := range accounts {
		err := s.hasher.Compare(account.PasswordHash, plain)
		if errors.Is(err, password.ErrMismatch) {
			continue
		}
		if err != nil {
			return apperror.Internal(err)
		}
		if !account.IsActive {
			return apperror.New(apperror.KindForbidden, apperror.AccountInactive, "Account inactive")
		}
		return tenantRequired()
	}
	return nil
}

// compareDummy spends one hash comparison so unknown emails take as long as
// wrong passwords
func (s *authService) compareDummy(plain string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	_ = s.hasher.Compare(s.dummyHash, plain)
}

func (s *authService) superAdmin(ctx context.Context, email string) (*model.User, error) {
	user, err := s.stores.Users().GetSuperAdminByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, caller access.Caller) (*Profile, error) {
	user, err := s.stores.Users().GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, lookupErr(err, "User")
	}

	profile := &Profile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
	if user.TenantID == nil {
		return profile, nil
	}

	tenant, err := s.stores.Tenants().GetByID(ctx, *user.TenantID)
	if err != nil {
		return nil, lookupErr(err, "Tenant")
	}
	profile.Tenant = &TenantRef{
		ID:               tenant.ID,
		Name:             tenant.Name,
		Subdomain:        tenant.Subdomain,
		Status:           tenant.Status,
		SubscriptionPlan: tenant.SubscriptionPlan,
		MaxUsers:         tenant.MaxUsers,
		MaxProjects:      tenant.MaxProjects,
	}
	return profile, nil
}

// Logout only records the event; tokens are stateless and expire on their own
func (s *authService) Logout(ctx context.Context, caller access.Caller) error {
	s.audit.Record(ctx, audit.Entry{
		TenantID:   caller.TenantID,
		UserID:     caller.UserID,
		Action:     model.ActionLogout,
		EntityType: "user",
		EntityID:   caller.UserID,
	})
	return nil
}

func invalidCredentials() error {
	return apperror.Unauthenticated(apperror.InvalidCredentials, "Invalid credentials")
}

func tenantRequired() error {
	return apperror.New(apperror.KindValidation, apperror.TenantRequired, "Tenant subdomain is required")
}

func subdomainTaken() error {
	return apperror.Conflict(apperror.SubdomainTaken, "Subdomain already exists")
}
