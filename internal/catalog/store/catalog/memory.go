// Package catalog stores the pets, shelters and media the public catalog reads.
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"petadopt/internal/catalog/models"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// InMemory holds the catalog in maps. The Add methods exist for seeding; the
// HTTP surface is read-only.
type InMemory struct {
	mu       sync.RWMutex
	pets     map[domain.PetID]*models.Pet
	shelters map[domain.ShelterID]*models.Shelter
	media    map[domain.MediaID]*models.MediaItem
	nextPet  domain.PetID
	nextShel domain.ShelterID
	nextMed  domain.MediaID
}

func NewInMemory() *InMemory {
	return &InMemory{
		pets:     make(map[domain.PetID]*models.Pet),
		shelters: make(map[domain.ShelterID]*models.Shelter),
		media:    make(map[domain.MediaID]*models.MediaItem),
	}
}

func (s *InMemory) AddShelter(_ context.Context, sh *models.Shelter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextShel++
	sh.ID = s.nextShel
	cp := *sh
	s.shelters[sh.ID] = &cp
	return nil
}

func (s *InMemory) AddPet(_ context.Context, p *models.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ShelterID != nil {
		if _, ok := s.shelters[*p.ShelterID]; !ok {
			return fmt.Errorf("shelter %d: %w", *p.ShelterID, sentinel.ErrForeignKey)
		}
	}
	if p.AdoptionStatus == "" {
		p.AdoptionStatus = models.PetStatusAvailable
	}
	s.nextPet++
	p.ID = s.nextPet
	cp := *p
	cp.PhotoURL, cp.Gallery = nil, nil
	s.pets[p.ID] = &cp
	return nil
}

func (s *InMemory) AddMedia(_ context.Context, m *models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[m.PetID]; !ok {
		return fmt.Errorf("pet %d: %w", m.PetID, sentinel.ErrForeignKey)
	}
	s.nextMed++
	m.ID = s.nextMed
	cp := *m
	cp.PetName = ""
	s.media[m.ID] = &cp
	return nil
}

func (s *InMemory) ListPets(_ context.Context, filter models.PetFilter) ([]*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Pet, 0, len(s.pets))
	for _, p := range s.pets {
		if !filter.Matches(p) {
			continue
		}
		cp := *p
		if gallery := s.galleryLocked(p.ID); len(gallery) > 0 {
			url := gallery[0].URL
			cp.PhotoURL = &url
		}
		out = append(out, &cp)
	}
	slices.SortFunc(out, rescuedNewestFirst)
	return out, nil
}

func (s *InMemory) FindPet(_ context.Context, id domain.PetID) (*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	cp.Gallery = s.galleryLocked(id)
	return &cp, nil
}

// PetName resolves a pet's name for adoption request views.
func (s *InMemory) PetName(_ context.Context, id domain.PetID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pets[id]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return p.Name, nil
}

func (s *InMemory) ListShelters(_ context.Context) ([]*models.Shelter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Shelter, 0, len(s.shelters))
	for _, sh := range s.shelters {
		cp := *sh
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.Shelter) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *InMemory) FindShelter(_ context.Context, id domain.ShelterID) (*models.Shelter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shelters[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

// ListMedia returns the whole gallery, or one pet's when petID is set,
// newest first.
func (s *InMemory) ListMedia(_ context.Context, petID *domain.PetID) ([]*models.MediaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if petID != nil {
		return s.galleryLocked(*petID), nil
	}
	out := make([]*models.MediaItem, 0, len(s.media))
	for _, m := range s.media {
		cp := *m
		if p, ok := s.pets[m.PetID]; ok {
			cp.PetName = p.Name
		}
		out = append(out, &cp)
	}
	slices.SortFunc(out, models.NewerFirst)
	return out, nil
}

func (s *InMemory) galleryLocked(petID domain.PetID) []*models.MediaItem {
	var out []*models.MediaItem
	for _, m := range s.media {
		if m.PetID == petID {
			cp := *m
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, models.NewerFirst)
	return out
}

// rescuedNewestFirst puts pets without a rescue date last.
func rescuedNewestFirst(a, b *models.Pet) int {
	switch {
	case a.RescuedAt == nil && b.RescuedAt == nil:
	case a.RescuedAt == nil:
		return 1
	case b.RescuedAt == nil:
		return -1
	default:
		if c := b.RescuedAt.Compare(*a.RescuedAt); c != 0 {
			return c
		}
	}
	return cmp.Compare(b.ID, a.ID)
}
