// Package memstore keeps items and notifications in process memory.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// Store holds items and notifications in insertion order.
type Store struct {
	mu sync.RWMutex

	items     []models.Item
	itemIndex map[string]int // item ID -> position in items

	notifications []models.Notification
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{itemIndex: make(map[string]int)}
}

// --- Item operations ---

// CreateItem appends a new item. Duplicate IDs are rejected.
func (s *Store) CreateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.itemIndex[item.ID]; exists {
		return fmt.Errorf("item %s already exists", item.ID)
	}
	s.itemIndex[item.ID] = len(s.items)
	s.items = append(s.items, item.Clone())
	return nil
}

// GetItem returns a copy of the item, or nil if unknown.
func (s *Store) GetItem(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.itemIndex[id]
	if !ok {
		return nil, nil
	}
	item := s.items[i].Clone()
	return &item, nil
}

// ListItems returns copies of matching items in insertion order.
func (s *Store) ListItems(_ context.Context, f models.ItemFilter) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Item
	for _, item := range s.items {
		if f.RestaurantID != "" && item.RestaurantID != f.RestaurantID {
			continue
		}
		if f.Status != "" && item.Status != f.Status {
			continue
		}
		out = append(out, item.Clone())
	}
	return out, nil
}

// SwapItem replaces the stored item if its status still equals prev.
func (s *Store) SwapItem(_ context.Context, next *models.Item, prev models.ItemStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.itemIndex[next.ID]
	if !ok || s.items[i].Status != prev {
		return false, nil
	}
	s.items[i] = next.Clone()
	return true, nil
}

// --- Notification operations ---

// AppendNotification adds a notification to the log.
func (s *Store) AppendNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *n)
	return nil
}

// ListNotifications returns the user's notifications in insertion order.
func (s *Store) ListNotifications(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

// MarkNotificationRead marks one of the user's notifications read.
// Unknown or foreign IDs are ignored.
func (s *Store) MarkNotificationRead(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
			return nil
		}
	}
	return nil
}

// MarkAllNotificationsRead marks every notification of the user read.
func (s *Store) MarkAllNotificationsRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
		}
	}
	return nil
}

// Close is a no-op; it lets the store stand in for the persistent backends.
func (s *Store) Close() error { return nil }
