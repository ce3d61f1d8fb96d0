package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userstore "petadopt/internal/auth/store/user"
	catalogmodels "petadopt/internal/catalog/models"
	catalogstore "petadopt/internal/catalog/store/catalog"
	"petadopt/internal/platform/config"
	"petadopt/pkg/domain"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := userstore.New()

	t.Run("no password means no admin", func(t *testing.T) {
		require.NoError(t, seedAdmin(ctx, users, config.Server{SeedAdminEmail: "admin@petadopt.local"}, logger))
		_, err := users.FindByEmail(ctx, "admin@petadopt.local")
		assert.Error(t, err)
	})

	t.Run("creates the admin once", func(t *testing.T) {
		cfg := config.Server{SeedAdminEmail: "Admin@PetAdopt.local", SeedAdminPassword: "cambiame"}
		require.NoError(t, seedAdmin(ctx, users, cfg, logger))
		require.NoError(t, seedAdmin(ctx, users, cfg, logger))

		u, err := users.FindByEmail(ctx, "admin@petadopt.local")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, u.RoleID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("cambiame")))
	})
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	store := catalogstore.NewInMemory()
	require.NoError(t, seedCatalog(ctx, store))

	pets, err := store.ListPets(ctx, catalogmodels.PetFilter{Statuses: []string{catalogmodels.PetStatusAvailable}})
	require.NoError(t, err)
	assert.Len(t, pets, 2)
	for _, p := range pets {
		assert.NotNil(t, p.PhotoURL)
	}
}
