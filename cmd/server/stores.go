package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	adoptionservice "petadopt/internal/adoption/service"
	requeststore "petadopt/internal/adoption/store/request"
	authservice "petadopt/internal/auth/service"
	"petadopt/internal/auth/store/lockout"
	userstore "petadopt/internal/auth/store/user"
	catalogservice "petadopt/internal/catalog/service"
	catalogstore "petadopt/internal/catalog/store/catalog"
	notificationservice "petadopt/internal/notification/service"
	notificationstore "petadopt/internal/notification/store/notification"
	"petadopt/internal/platform/config"
	"petadopt/internal/platform/postgres"
	"petadopt/internal/platform/redis"
	httptransport "petadopt/internal/transport/http"
)

type userStore interface {
	authservice.UserStore
	requeststore.UserDirectory
}

type catalogStore interface {
	catalogservice.Store
	requeststore.PetDirectory
}

// backends is the set of stores every module runs on, plus the health checks
// and shutdown hooks of whatever they connect to.
type backends struct {
	users         userStore
	lockout       authservice.LockoutStore
	catalog       catalogStore
	requests      adoptionservice.Store
	notifications notificationservice.Store
	health        []httptransport.HealthCheck
	closers       []func() error
	inMemory      bool
}

// openBackends uses Postgres when DATABASE_URL is set and in-process stores
// otherwise. Redis is optional either way; without it the login lockout is
// per-instance.
func openBackends(ctx context.Context, cfg config.Server, logger *slog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				_ = b.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		b.users = userstore.NewPostgres(db)
		b.catalog = catalogstore.NewPostgres(db)
		b.requests = requeststore.NewPostgres(db)
		b.notifications = notificationstore.NewPostgres(db)
		b.health = append(b.health, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
		logger.Info("using postgres stores")
	} else {
		users := userstore.New()
		catalog := catalogstore.NewInMemory()
		b.users = users
		b.catalog = catalog
		b.requests = requeststore.NewInMemory(users, catalog)
		b.notifications = notificationstore.NewInMemory()
		b.inMemory = true
		logger.Warn("DATABASE_URL not set; using in-memory stores")
	}

	client, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if client != nil {
		b.lockout = lockout.NewRedis(client.Client)
		b.closers = append(b.closers, client.Close)
		b.health = append(b.health, httptransport.HealthCheck{Name: "redis", Check: client.Health})
		logger.Info("using redis login lockout")
	} else {
		b.lockout = lockout.NewInMemory()
	}
	return b, nil
}

func (b *backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}
