package service

import (
	"errors"
	"strings"
	"time"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/store"
	"taskhub-service/prometheus"
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(userID, tenantID, role, email string) (string, error)
	TTL() time.Duration
}

// authorizeScoped runs the access gate, reporting another tenant's resource
// as not found. Tenant scope is checked before the role so a denial never
// tells whether a foreign id exists.
func authorizeScoped(caller access.Caller, target access.Target, rule access.Rule, what string) error {
	if !caller.IsSuperAdmin() && target.TenantID != "" && target.TenantID != caller.TenantID {
		prometheus.RecordAccessDenied(string(apperror.CrossTenantAccess))
		return apperror.NotFound(what + " not found")
	}
	if err := access.Authorize(caller, target, rule); err != nil {
		if access.IsCrossTenant(err) {
			return apperror.NotFound(what + " not found")
		}
		return err
	}
	return nil
}

// lookupErr maps a store read failure for the named entity
func lookupErr(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound(what + " not found")
	}
	return apperror.Internal(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optionalText trims s; an empty result clears the field
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
