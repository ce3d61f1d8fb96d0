// Package authz holds the role checks applied after authentication. The
// checks are pure: they look only at the identity and the ids passed in.
package authz

import (
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
)

// RequireRole fails unless identity holds required.
func RequireRole(identity *domain.Identity, required domain.RoleID) error {
	if identity == nil {
		return errUnauthenticated()
	}
	if identity.RoleID != required {
		return dErrors.New(dErrors.CodeForbidden, "you do not have permission to perform this action")
	}
	return nil
}

// RequireSelfOrRole fails unless identity is owner or holds required.
func RequireSelfOrRole(identity *domain.Identity, owner domain.UserID, required domain.RoleID) error {
	if identity == nil {
		return errUnauthenticated()
	}
	if identity.UserID == owner || identity.RoleID == required {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "you can only access your own resources")
}

// RequireAdminOrSelf is RequireSelfOrRole with the administrator role.
func RequireAdminOrSelf(identity *domain.Identity, owner domain.UserID) error {
	return RequireSelfOrRole(identity, owner, domain.RoleAdmin)
}

// RequireAdmin is RequireRole with the administrator role.
func RequireAdmin(identity *domain.Identity) error {
	return RequireRole(identity, domain.RoleAdmin)
}

// Reaching a role check without an identity means a route was wired without
// authentication.
func errUnauthenticated() error {
	return dErrors.New(dErrors.CodeMissingToken, "authentication required")
}
