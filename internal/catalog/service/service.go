package service

import (
	"context"
	"errors"
	"log/slog"

	"petadopt/internal/catalog/models"
	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
	"petadopt/pkg/platform/sentinel"
	"petadopt/pkg/requestcontext"
)

type Store interface {
	ListPets(ctx context.Context, filter models.PetFilter) ([]*models.Pet, error)
	FindPet(ctx context.Context, id domain.PetID) (*models.Pet, error)
	ListShelters(ctx context.Context) ([]*models.Shelter, error)
	FindShelter(ctx context.Context, id domain.ShelterID) (*models.Shelter, error)
	ListMedia(ctx context.Context, petID *domain.PetID) ([]*models.MediaItem, error)
}

// Service serves the public catalog. None of its operations look at the
// caller identity.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListPets(ctx context.Context, filter models.PetFilter) ([]*models.Pet, error) {
	pets, err := s.store.ListPets(ctx, filter)
	if err != nil {
		return nil, s.readError(ctx, err, "failed to list pets")
	}
	return pets, nil
}

func (s *Service) GetPet(ctx context.Context, id domain.PetID) (*models.Pet, error) {
	p, err := s.store.FindPet(ctx, id)
	if err != nil {
		return nil, s.readError(ctx, err, "pet not found")
	}
	return p, nil
}

func (s *Service) ListShelters(ctx context.Context) ([]*models.Shelter, error) {
	out, err := s.store.ListShelters(ctx)
	if err != nil {
		return nil, s.readError(ctx, err, "failed to list shelters")
	}
	return out, nil
}

func (s *Service) GetShelter(ctx context.Context, id domain.ShelterID) (*models.Shelter, error) {
	sh, err := s.store.FindShelter(ctx, id)
	if err != nil {
		return nil, s.readError(ctx, err, "shelter not found")
	}
	return sh, nil
}

func (s *Service) ListGallery(ctx context.Context) ([]*models.MediaItem, error) {
	out, err := s.store.ListMedia(ctx, nil)
	if err != nil {
		return nil, s.readError(ctx, err, "failed to list gallery")
	}
	return out, nil
}

// ListPetGallery returns one pet's media. An unknown pet is not found rather
// than an empty gallery.
func (s *Service) ListPetGallery(ctx context.Context, petID domain.PetID) ([]*models.MediaItem, error) {
	p, err := s.store.FindPet(ctx, petID)
	if err != nil {
		return nil, s.readError(ctx, err, "pet not found")
	}
	return p.Gallery, nil
}

func (s *Service) readError(ctx context.Context, err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	s.logger.ErrorContext(ctx, "catalog read failed",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
