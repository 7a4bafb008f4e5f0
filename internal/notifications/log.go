// Package notifications keeps the per-user notification log and is the
// single entry point for publishing new notifications.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// ErrUnauthenticated is returned when an operation has no current user.
var ErrUnauthenticated = errors.New("no current user")

// Repository persists notifications.
type Repository interface {
	AppendNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Mirror receives a copy of every published notification.
type Mirror interface {
	Publish(ctx context.Context, n models.Notification) error
}

// Log is the notification log.
type Log struct {
	repo   Repository
	mirror Mirror
	now    func() time.Time
}

// New creates a notification log. mirror may be nil.
func New(repo Repository, mirror Mirror) *Log {
	return &Log{repo: repo, mirror: mirror, now: time.Now}
}

// List returns the user's notifications in insertion order.
func (l *Log) List(ctx context.Context, user *models.User) ([]models.Notification, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	ns, err := l.repo.ListNotifications(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return ns, nil
}

// UnreadCount returns how many of the user's notifications are unread.
func (l *Log) UnreadCount(ctx context.Context, user *models.User) (int, error) {
	ns, err := l.List(ctx, user)
	if err != nil {
		return 0, err
	}
	return countUnread(ns), nil
}

// MarkRead marks a single notification read. Unknown IDs are a no-op.
func (l *Log) MarkRead(ctx context.Context, user *models.User, id string) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if err := l.repo.MarkNotificationRead(ctx, user.ID, id); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead marks every notification of the user read.
func (l *Log) MarkAllRead(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if err := l.repo.MarkAllNotificationsRead(ctx, user.ID); err != nil {
		return fmt.Errorf("mark all read for %s: %w", user.ID, err)
	}
	return nil
}

// Notify appends a notification for userID and mirrors it.
// Mirror failures are logged only.
func (l *Log) Notify(ctx context.Context, userID string, typ models.NotificationType, title, message, relatedItemID string) error {
	n := models.Notification{
		ID:            uuid.New().String(),
		UserID:        userID,
		Type:          typ,
		Title:         title,
		Message:       message,
		CreatedAt:     l.now(),
		RelatedItemID: relatedItemID,
	}
	if err := l.repo.AppendNotification(ctx, &n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	if l.mirror != nil {
		if err := l.mirror.Publish(ctx, n); err != nil {
			log.Printf("notify: mirror publish failed for id=%s user=%s: %v", n.ID, userID, err)
		}
	}
	return nil
}

func countUnread(ns []models.Notification) int {
	unread := 0
	for _, n := range ns {
		if !n.Read {
			unread++
		}
	}
	return unread
}
