// Package httptransport assembles the route table from every module and
// serves it behind the shared middleware chain.
package httptransport

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"petadopt/internal/platform/metrics"
	"petadopt/internal/platform/middleware"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/httputil"
	"petadopt/pkg/platform/middleware/admin"
	"petadopt/pkg/platform/middleware/auth"
	"petadopt/pkg/platform/middleware/metadata"
	"petadopt/pkg/platform/middleware/requesttime"
	"petadopt/pkg/platform/routes"
)

const defaultRequestTimeout = 30 * time.Second

// RouteProvider is implemented by every module handler.
type RouteProvider interface {
	Routes() []routes.Route
}

// Deps is everything the router needs. Metrics and Clock may be nil.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Authenticator  auth.Authenticator
	Modules        []RouteProvider
	Health         []HealthCheck
	BasePath       string
	RequestTimeout time.Duration
	Clock          func() time.Time
}

// NewRouter builds the single route table, derives the public matcher from
// it and mounts each route behind its access gate.
func NewRouter(deps Deps) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	table := []routes.Route{
		{Method: http.MethodGet, Pattern: "/health", Access: routes.Public(), Handler: healthHandler(deps.Health, logger)},
	}
	for _, m := range deps.Modules {
		table = append(table, m.Routes()...)
	}
	if err := routes.Validate(table); err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}
	matcher, err := routes.NewMatcher(deps.BasePath, table)
	if err != nil {
		return nil, fmt.Errorf("public matcher: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.WithClock(clock))
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.LatencyMiddleware(deps.Metrics))
	r.Use(middleware.ContentTypeJSON)
	r.Use(auth.RequireAuth(deps.Authenticator, matcher, deps.Metrics, logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Envelope{
			Status:  httputil.StatusError,
			Message: "method not allowed",
		})
	})

	mount := func(sub chi.Router) {
		for _, rt := range table {
			sub.With(admin.RequireAccess(rt, deps.Metrics, logger)).Method(rt.Method, rt.Pattern, rt.Handler)
		}
	}
	if base := strings.TrimSuffix(deps.BasePath, "/"); base != "" {
		if !strings.HasPrefix(base, "/") {
			base = "/" + base
		}
		r.Route(base, mount)
	} else {
		mount(r)
	}

	logger.Info("routes registered", "count", len(table), "base_path", deps.BasePath)
	return r, nil
}
