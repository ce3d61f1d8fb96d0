package user

import (
	"context"
	"sync"

	"petadopt/internal/auth/models"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in maps keyed by id and normalized email.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	nextID  domain.UserID
	users   map[domain.UserID]*models.User
	byEmail map[string]domain.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[domain.UserID]*models.User),
		byEmail: make(map[string]domain.UserID),
	}
}

// Create assigns an id. A taken email returns sentinel.ErrConflict.
func (s *InMemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := models.NormalizeEmail(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrConflict
	}
	s.nextID++
	u.ID = s.nextID
	u.Email = email
	stored := *u
	s.users[u.ID] = &stored
	s.byEmail[email] = u.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id domain.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.users[id]
	return &out, nil
}

// FullName returns the first and last name of id.
func (s *InMemoryUserStore) FullName(ctx context.Context, id domain.UserID) (string, string, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return u.FirstName, u.LastName, nil
}
