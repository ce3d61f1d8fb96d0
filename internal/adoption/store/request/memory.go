package request

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"petadopt/internal/adoption/models"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// UserDirectory resolves requester names. Lookups of unknown users return
// sentinel.ErrNotFound.
type UserDirectory interface {
	FullName(ctx context.Context, id domain.UserID) (first, last string, err error)
}

// PetDirectory resolves pet names. Lookups of unknown pets return
// sentinel.ErrNotFound.
type PetDirectory interface {
	PetName(ctx context.Context, id domain.PetID) (string, error)
}

// InMemory stores adoption requests in a map. When directories are provided
// it enforces the same references the database does and fills view names.
type InMemory struct {
	mu       sync.RWMutex
	nextID   domain.AdoptionID
	requests map[domain.AdoptionID]*models.Request
	users    UserDirectory
	pets     PetDirectory
}

func NewInMemory(users UserDirectory, pets PetDirectory) *InMemory {
	return &InMemory{
		requests: make(map[domain.AdoptionID]*models.Request),
		users:    users,
		pets:     pets,
	}
}

func (s *InMemory) Create(ctx context.Context, r *models.Request) error {
	if s.users != nil {
		if _, _, err := s.users.FullName(ctx, r.RequesterUserID); err != nil {
			return referenceError("user", err)
		}
	}
	if s.pets != nil {
		if _, err := s.pets.PetName(ctx, r.PetID); err != nil {
			return referenceError("pet", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	stored := *r
	s.requests[r.ID] = &stored
	return nil
}

func (s *InMemory) FindViewByID(ctx context.Context, id domain.AdoptionID) (*models.View, error) {
	s.mu.RLock()
	r, ok := s.requests[id]
	var cp models.Request
	if ok {
		cp = *r
	}
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.view(ctx, &cp), nil
}

// List returns matching requests, newest first.
func (s *InMemory) List(ctx context.Context, filter models.ListFilter) ([]*models.View, error) {
	s.mu.RLock()
	matched := make([]models.Request, 0)
	for _, r := range s.requests {
		if filter.Matches(r) {
			matched = append(matched, *r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SubmittedAt.Equal(matched[j].SubmittedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})
	out := make([]*models.View, 0, len(matched))
	for i := range matched {
		out = append(out, s.view(ctx, &matched[i]))
	}
	return out, nil
}

// UpdateStatus writes only the status, observations and decision date. The
// motive given by the requester is never touched.
func (s *InMemory) UpdateStatus(_ context.Context, id domain.AdoptionID, change models.StatusChange) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return false, nil
	}
	r.ApplyStatusChange(change)
	return true, nil
}

func (s *InMemory) Delete(_ context.Context, id domain.AdoptionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *InMemory) view(ctx context.Context, r *models.Request) *models.View {
	v := &models.View{Request: *r}
	if s.users != nil {
		v.RequesterName, v.RequesterLastName, _ = s.users.FullName(ctx, r.RequesterUserID)
	}
	if s.pets != nil {
		v.PetName, _ = s.pets.PetName(ctx, r.PetID)
	}
	return v
}

func referenceError(what string, err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel.ErrForeignKey, what)
	}
	return err
}
