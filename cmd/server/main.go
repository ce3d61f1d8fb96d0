package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	adoptionhandler "petadopt/internal/adoption/handler"
	adoptionmetrics "petadopt/internal/adoption/metrics"
	adoptionservice "petadopt/internal/adoption/service"
	authhandler "petadopt/internal/auth/handler"
	authservice "petadopt/internal/auth/service"
	cataloghandler "petadopt/internal/catalog/handler"
	catalogservice "petadopt/internal/catalog/service"
	catalogstore "petadopt/internal/catalog/store/catalog"
	jwttoken "petadopt/internal/jwt_token"
	notificationhandler "petadopt/internal/notification/handler"
	notificationmetrics "petadopt/internal/notification/metrics"
	notificationservice "petadopt/internal/notification/service"
	"petadopt/internal/platform/config"
	"petadopt/internal/platform/httpserver"
	"petadopt/internal/platform/logger"
	"petadopt/internal/platform/metrics"
	httptransport "petadopt/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)

	stores, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("closing backends", "error", err)
		}
	}()
	if err := seedAdmin(ctx, stores.users, cfg, log); err != nil {
		return err
	}
	if mem, ok := stores.catalog.(*catalogstore.InMemory); ok && stores.inMemory {
		if err := seedCatalog(ctx, mem); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	tokens := jwttoken.NewJWTService(cfg.JWTSecretKey, cfg.AppURL, cfg.AppURL, jwttoken.WithTTL(cfg.TokenTTL))

	notifications := notificationservice.New(stores.notifications,
		notificationservice.WithLogger(log),
		notificationservice.WithMetrics(notificationmetrics.New(reg)),
	)
	adoptions := adoptionservice.New(stores.requests, notifications,
		adoptionservice.WithLogger(log),
		adoptionservice.WithMetrics(adoptionmetrics.New(reg)),
	)
	auth := authservice.New(stores.users, stores.lockout, tokens,
		authservice.WithLogger(log),
		authservice.WithMetrics(httpMetrics),
		authservice.WithLockout(cfg.LoginMaxAttempts, cfg.LoginLockoutWindow),
	)
	catalog := catalogservice.New(stores.catalog, catalogservice.WithLogger(log))

	router, err := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        httpMetrics,
		Authenticator:  tokens,
		Health:         stores.health,
		BasePath:       cfg.BasePath,
		RequestTimeout: cfg.RequestTimeout,
		Modules: []httptransport.RouteProvider{
			authhandler.New(auth, log),
			cataloghandler.New(catalog, log),
			adoptionhandler.New(adoptions, log),
			notificationhandler.New(notifications, log),
		},
	})
	if err != nil {
		return err
	}

	api := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)
	metricsSrv := httpserver.New(cfg.MetricsAddr, metrics.Handler(reg), cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting petadopt api", "addr", cfg.Addr, "base_path", cfg.BasePath)
		return listen(api)
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.MetricsAddr)
		return listen(metricsSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(api.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return nil
}
