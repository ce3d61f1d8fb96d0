package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/routes"
	"petadopt/pkg/requestcontext"
	"petadopt/pkg/testutil"
)

type denials map[string]int

func (d denials) IncrementAuthzDenied(route string) { d[route]++ }

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func gated(route routes.Route, metrics Metrics) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.With(RequireAccess(route, metrics, logger)).Method(route.Method, route.Pattern, route.Handler)
	return r
}

func as(req *http.Request, identity domain.Identity) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), identity))
}

var (
	admin   = domain.Identity{UserID: 1, RoleID: domain.RoleAdmin}
	adopter = domain.Identity{UserID: 5, RoleID: domain.RoleAdopter}
)

func TestRequireAccess_Role(t *testing.T) {
	route := routes.Route{Method: http.MethodPut, Pattern: "/api/solicitudes-adopcion/{id}/estado", Access: routes.Role(domain.RoleAdmin), Handler: ok}
	denied := denials{}
	h := gated(route, denied)

	t.Run("administrator passes", func(t *testing.T) {
		rr := testutil.DoRequest(h, as(httptest.NewRequest(http.MethodPut, "/api/solicitudes-adopcion/3/estado", nil), admin))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		rr := testutil.DoRequest(h, as(httptest.NewRequest(http.MethodPut, "/api/solicitudes-adopcion/3/estado", nil), adopter))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, string(dErrors.CodeForbidden))
		assert.Equal(t, 1, denied[route.Name()])
	})

	t.Run("no identity is unauthenticated", func(t *testing.T) {
		rr := testutil.DoRequest(h, httptest.NewRequest(http.MethodPut, "/api/solicitudes-adopcion/3/estado", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeMissingToken))
	})
}

func TestRequireAccess_SelfOrRole(t *testing.T) {
	route := routes.Route{
		Method:  http.MethodGet,
		Pattern: "/api/solicitudes-adopcion/usuario/{userID}",
		Access:  routes.SelfOrRole(domain.RoleAdmin, "userID"),
		Handler: ok,
	}
	h := gated(route, nil)

	tests := []struct {
		name     string
		identity domain.Identity
		path     string
		status   int
	}{
		{"own resource", adopter, "/api/solicitudes-adopcion/usuario/5", http.StatusOK},
		{"administrator on other user", admin, "/api/solicitudes-adopcion/usuario/5", http.StatusOK},
		{"other user", adopter, "/api/solicitudes-adopcion/usuario/6", http.StatusForbidden},
		{"non-numeric owner", adopter, "/api/solicitudes-adopcion/usuario/me", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(h, as(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.identity))
			testutil.AssertStatus(t, rr, tt.status)
		})
	}
}

func TestRequireAccess_Authenticated(t *testing.T) {
	route := routes.Route{Method: http.MethodGet, Pattern: "/api/notificaciones", Access: routes.Authenticated(), Handler: ok}
	h := gated(route, nil)

	testutil.AssertStatusOK(t, testutil.DoRequest(h, as(httptest.NewRequest(http.MethodGet, "/api/notificaciones", nil), adopter)))
	testutil.AssertStatus(t, testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/api/notificaciones", nil)), http.StatusUnauthorized)
}

func TestRequireAccess_PublicIsPassThrough(t *testing.T) {
	route := routes.Route{Method: http.MethodGet, Pattern: "/api/mascotas", Access: routes.Public(), Handler: ok}
	h := gated(route, nil)

	testutil.AssertStatusOK(t, testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/api/mascotas", nil)))
}
