package testutil

import (
	"net/http"
	"time"

	"petadopt/pkg/domain"
	"petadopt/pkg/requestcontext"
)

// WithIdentity attaches an authenticated caller to the request context,
// the state RequireAuth leaves behind for protected routes.
func WithIdentity(req *http.Request, identity domain.Identity) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), identity))
}

// AsAdmin authenticates the request as an administrator with the given id.
func AsAdmin(req *http.Request, userID domain.UserID) *http.Request {
	return WithIdentity(req, domain.Identity{UserID: userID, RoleID: domain.RoleAdmin})
}

// AsAdopter authenticates the request as a regular user with the given id.
func AsAdopter(req *http.Request, userID domain.UserID) *http.Request {
	return WithIdentity(req, domain.Identity{UserID: userID, RoleID: domain.RoleAdopter})
}

// WithTime fixes the request-scoped clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
