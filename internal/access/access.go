// Package access decides whether a caller may act on a tenant-scoped resource.
//
// Rules are evaluated in a fixed order:
//  1. super_admin is allowed for reads, and for mutations whose rule admits super_admin
//  2. the caller's role must be in the rule's role set, if one is given
//  3. the target's tenant must be the caller's tenant
//  4. for owner-only rules, a non tenant_admin caller must own the target
package access

import (
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/model"
	"taskhub-service/prometheus"
)

// Caller is the authenticated identity behind a request
type Caller struct {
	UserID   string
	TenantID string // Empty for super_admin
	Role     model.Role
}

// IsSuperAdmin reports whether the caller bypasses tenant scoping
func (c Caller) IsSuperAdmin() bool {
	return c.Role == model.RoleSuperAdmin
}

// Target describes the resource being acted on
type Target struct {
	TenantID string
	OwnerID  string
}

// Rule is the declarative requirement of one operation
type Rule struct {
	Roles     []model.Role
	Mutation  bool
	OwnerOnly bool
}

// Common rules shared by the services
var (
	Read          = Rule{}
	AdminMutation = Rule{Roles: []model.Role{model.RoleSuperAdmin, model.RoleTenantAdmin}, Mutation: true}
	MemberWrite   = Rule{Roles: []model.Role{model.RoleTenantAdmin, model.RoleUser}, Mutation: true}
	OwnerWrite    = Rule{Roles: []model.Role{model.RoleSuperAdmin, model.RoleTenantAdmin, model.RoleUser}, Mutation: true, OwnerOnly: true}
	SuperAdmin    = Rule{Roles: []model.Role{model.RoleSuperAdmin}}
)

func (r Rule) allows(role model.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Authorize returns nil when the caller may proceed, otherwise a Forbidden
// error tagged with the denial reason
func Authorize(caller Caller, target Target, rule Rule) error {
	if caller.IsSuperAdmin() {
		if !rule.Mutation || rule.allows(caller.Role) {
			return nil
		}
		return deny(apperror.InsufficientRole, "insufficient role")
	}

	if !rule.allows(caller.Role) {
		return deny(apperror.InsufficientRole, "insufficient role")
	}

	if target.TenantID != "" && target.TenantID != caller.TenantID {
		return deny(apperror.CrossTenantAccess, "resource belongs to another tenant")
	}

	if rule.OwnerOnly && caller.Role != model.RoleTenantAdmin && caller.UserID != target.OwnerID {
		return deny(apperror.NotOwner, "only an admin or the owner can do this")
	}

	return nil
}

// CheckSelfUpdate rejects a caller changing their own role or active flag
func CheckSelfUpdate(caller Caller, targetUserID string, changesRole, changesActive bool) error {
	if caller.UserID != targetUserID {
		return nil
	}
	if changesRole || changesActive {
		return deny(apperror.SelfPrivilegeEscalation, "cannot change your own role or active status")
	}
	return nil
}

// CheckSelfDelete rejects a caller deleting their own account
func CheckSelfDelete(caller Caller, targetUserID string) error {
	if caller.UserID == targetUserID {
		return deny(apperror.SelfDeletion, "cannot delete your own account")
	}
	return nil
}

// IsCrossTenant reports whether err is a cross-tenant denial, which callers
// surface as not found
func IsCrossTenant(err error) bool {
	return apperror.ReasonOf(err) == apperror.CrossTenantAccess
}

func deny(reason apperror.Reason, message string) error {
	prometheus.RecordAccessDenied(string(reason))
	return apperror.Forbidden(reason, message)
}
