package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	authmodels "petadopt/internal/auth/models"
	catalogmodels "petadopt/internal/catalog/models"
	catalogstore "petadopt/internal/catalog/store/catalog"
	"petadopt/internal/platform/config"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// seedAdmin makes sure the configured administrator exists. Registration
// only ever creates adopters, so this is how the first admin appears.
func seedAdmin(ctx context.Context, users userStore, cfg config.Server, logger *slog.Logger) error {
	if cfg.SeedAdminPassword == "" {
		return nil
	}
	email := authmodels.NormalizeEmail(cfg.SeedAdminEmail)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("look up seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}
	admin := &authmodels.User{
		FirstName:    "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       domain.RoleAdmin,
		Status:       authmodels.UserStatusActive,
		RegisteredAt: time.Now(),
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}
	logger.Info("seeded administrator", "user_id", admin.ID, "email", email)
	return nil
}

// seedCatalog fills an in-memory catalog so the public reads have content.
func seedCatalog(ctx context.Context, store *catalogstore.InMemory) error {
	shelter := &catalogmodels.Shelter{
		Name: "Refugio Huellitas", Address: "Av. Siempre Viva 742", City: "Quito", Country: "Ecuador", Status: "Activo",
	}
	if err := store.AddShelter(ctx, shelter); err != nil {
		return err
	}
	rescued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []*catalogmodels.Pet{
		{Name: "Luna", Species: "Perro", ShelterID: &shelter.ID, RescuedAt: &rescued},
		{Name: "Michi", Species: "Gato", ShelterID: &shelter.ID},
	} {
		if err := store.AddPet(ctx, p); err != nil {
			return err
		}
		if err := store.AddMedia(ctx, &catalogmodels.MediaItem{
			PetID: p.ID, MediaType: "imagen", URL: "/media/" + p.ID.String() + ".jpg", UploadedAt: rescued,
		}); err != nil {
			return err
		}
	}
	return nil
}
