// Package routes holds the declarative route table types and the public route
// matcher derived from them. One table drives dispatch, the authentication
// exemption and role gating, so the three can never drift apart.
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"petadopt/pkg/domain"
)

// AccessKind says what a caller needs to reach a route.
type AccessKind int

const (
	// AccessPublic routes skip authentication entirely.
	AccessPublic AccessKind = iota
	// AccessAuthenticated routes need any valid token. Ownership checks that
	// depend on stored data happen in the service.
	AccessAuthenticated
	// AccessRole routes need the caller to hold Role.
	AccessRole
	// AccessSelfOrRole routes need the caller to be the user named by the
	// OwnerParam URL parameter, or to hold Role.
	AccessSelfOrRole
)

func (k AccessKind) String() string {
	switch k {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessRole:
		return "role"
	case AccessSelfOrRole:
		return "self_or_role"
	default:
		return "unknown"
	}
}

// Access is a route's authorization requirement.
type Access struct {
	Kind       AccessKind
	Role       domain.RoleID
	OwnerParam string
}

func Public() Access        { return Access{Kind: AccessPublic} }
func Authenticated() Access { return Access{Kind: AccessAuthenticated} }

func Role(role domain.RoleID) Access {
	return Access{Kind: AccessRole, Role: role}
}

func SelfOrRole(role domain.RoleID, ownerParam string) Access {
	return Access{Kind: AccessSelfOrRole, Role: role, OwnerParam: ownerParam}
}

// Route is one entry of the table. Pattern uses chi syntax.
type Route struct {
	Method  string
	Pattern string
	Access  Access
	Handler http.HandlerFunc
}

// Name identifies the route in logs and metrics.
func (r Route) Name() string {
	return r.Method + " " + r.Pattern
}

// Validate checks the table for entries the matcher and gate cannot honor.
func Validate(table []Route) error {
	seen := make(map[string]struct{}, len(table))
	for _, r := range table {
		if _, dup := seen[r.Name()]; dup {
			return fmt.Errorf("duplicate route %s", r.Name())
		}
		seen[r.Name()] = struct{}{}
		if r.Handler == nil {
			return fmt.Errorf("route %s has no handler", r.Name())
		}
		if !strings.HasPrefix(r.Pattern, "/") {
			return fmt.Errorf("route %s must start with /", r.Name())
		}
		switch r.Access.Kind {
		case AccessPublic:
			if _, err := compile(r); err != nil {
				return err
			}
		case AccessRole:
			if r.Access.Role <= 0 {
				return fmt.Errorf("route %s requires a role", r.Name())
			}
		case AccessSelfOrRole:
			if r.Access.Role <= 0 || r.Access.OwnerParam == "" {
				return fmt.Errorf("route %s requires a role and an owner parameter", r.Name())
			}
			if !strings.Contains(r.Pattern, "{"+r.Access.OwnerParam) {
				return fmt.Errorf("route %s has no {%s} parameter", r.Name(), r.Access.OwnerParam)
			}
		}
	}
	return nil
}
