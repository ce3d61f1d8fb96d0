// Package admin enforces the access requirement a route declares in the
// route table. It runs after routing, so URL parameters are available.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/authz"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/routes"
	"petadopt/pkg/requestcontext"
)

// Metrics records role check denials.
type Metrics interface {
	IncrementAuthzDenied(route string)
}

// RequireAccess builds the gate for one route.
func RequireAccess(route routes.Route, metrics Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	access := route.Access
	return func(next http.Handler) http.Handler {
		if access.Kind == routes.AccessPublic {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := requestcontext.IdentityPtr(ctx)

			var err error
			switch access.Kind {
			case routes.AccessAuthenticated:
				if identity == nil {
					err = dErrors.New(dErrors.CodeMissingToken, "authentication required")
				}
			case routes.AccessRole:
				err = authz.RequireRole(identity, access.Role)
			case routes.AccessSelfOrRole:
				var owner domain.UserID
				owner, err = domain.ParseUserID(chi.URLParam(r, access.OwnerParam))
				if err == nil {
					err = authz.RequireSelfOrRole(identity, owner, access.Role)
				}
			default:
				err = dErrors.New(dErrors.CodeInternal, "unknown route access kind")
			}

			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeForbidden) {
					if metrics != nil {
						metrics.IncrementAuthzDenied(route.Name())
					}
					logger.WarnContext(ctx, "access denied",
						"route", route.Name(),
						"user_id", requestcontext.UserID(ctx),
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
