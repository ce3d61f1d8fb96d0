package notification

import (
	"context"
	"sort"
	"sync"

	"petadopt/internal/notification/models"
	"petadopt/pkg/domain"
	"petadopt/pkg/platform/sentinel"
)

// InMemory is a thread-safe notification store for tests and local runs.
type InMemory struct {
	mu            sync.RWMutex
	nextID        domain.NotificationID
	notifications map[domain.NotificationID]*models.Notification
}

func NewInMemory() *InMemory {
	return &InMemory{
		notifications: make(map[domain.NotificationID]*models.Notification),
	}
}

// Create assigns an id and stores a copy of n.
func (s *InMemory) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	stored := *n
	s.notifications[n.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.NotificationID) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *n
	return &out, nil
}

// List returns matching notifications, newest first.
func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Notification, 0)
	for _, n := range s.notifications {
		if filter.Matches(n) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkRead flips the read flag. It reports false when the notification was
// already read and returns ErrNotFound when it does not exist.
func (s *InMemory) MarkRead(_ context.Context, id domain.NotificationID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if n.Read {
		return false, nil
	}
	n.Read = true
	return true, nil
}

func (s *InMemory) MarkAllReadForUser(_ context.Context, userID domain.UserID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for _, n := range s.notifications {
		if n.RecipientUserID == userID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func (s *InMemory) Delete(_ context.Context, id domain.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}
