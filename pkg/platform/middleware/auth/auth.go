package auth

import (
	"log/slog"
	"net/http"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/requestcontext"
)

// Authenticator turns an Authorization header value into an Identity.
type Authenticator interface {
	Authenticate(authorizationHeader string) (domain.Identity, error)
}

// PublicMatcher decides whether a request is exempt from authentication.
type PublicMatcher interface {
	IsPublic(method, path string) bool
}

// Metrics records authentication failures by kind.
type Metrics interface {
	IncrementAuthFailure(kind string)
}

// RequireAuth authenticates every request the matcher does not exempt and
// stores the resulting Identity in the request context. Failures end the
// request with a 401 carrying the failure kind.
func RequireAuth(authenticator Authenticator, matcher PublicMatcher, metrics Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if matcher != nil && matcher.IsPublic(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			identity, err := authenticator.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				kind := dErrors.KindOf(err)
				if !kind.IsAuthentication() {
					// Anything else is a bug in the authenticator; never let it through.
					kind = dErrors.CodeMalformedToken
					err = dErrors.Wrap(err, kind, "invalid token")
				}
				logger.WarnContext(ctx, "unauthorized access",
					"kind", string(kind),
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				if metrics != nil {
					metrics.IncrementAuthFailure(string(kind))
				}
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithIdentity(ctx, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
