package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jredh-dev/foodshare/internal/memstore"
	"github.com/jredh-dev/foodshare/pkg/models"
)

var (
	maria = &models.User{ID: "1", Role: models.RoleRestaurant}
	david = &models.User{ID: "2", Role: models.RoleCharity}
)

type fakeMirror struct {
	published []models.Notification
	err       error
}

func (f *fakeMirror) Publish(_ context.Context, n models.Notification) error {
	f.published = append(f.published, n)
	return f.err
}

func setupLog(t *testing.T, mirror Mirror) *Log {
	t.Helper()
	l := New(memstore.New(), mirror)
	l.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestNotify_AppendsAndMirrors(t *testing.T) {
	mirror := &fakeMirror{}
	l := setupLog(t, mirror)
	ctx := context.Background()

	require.NoError(t, l.Notify(ctx, "1", models.NotificationClaimed, "Item Reserved", "Community Food Bank reserved your pasta", "item-1"))

	ns, err := l.List(ctx, maria)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.NotEmpty(t, ns[0].ID)
	assert.Equal(t, models.NotificationClaimed, ns[0].Type)
	assert.Equal(t, "item-1", ns[0].RelatedItemID)
	assert.False(t, ns[0].Read)

	require.Len(t, mirror.published, 1)
	assert.Equal(t, ns[0].ID, mirror.published[0].ID)
}

func TestNotify_MirrorFailureIsNotFatal(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("broker down")}
	l := setupLog(t, mirror)
	ctx := context.Background()

	require.NoError(t, l.Notify(ctx, "2", models.NotificationNewItem, "New Surplus Available", "", ""))

	n, err := l.UnreadCount(ctx, david)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "notification is logged even when the mirror fails")
}

func TestMarkRead(t *testing.T) {
	l := setupLog(t, nil)
	ctx := context.Background()

	require.NoError(t, l.Notify(ctx, "1", models.NotificationExpiringSoon, "Items Expiring Soon", "", ""))
	require.NoError(t, l.Notify(ctx, "1", models.NotificationClaimed, "Item Claimed", "", ""))

	ns, err := l.List(ctx, maria)
	require.NoError(t, err)
	require.Len(t, ns, 2)

	require.NoError(t, l.MarkRead(ctx, maria, ns[0].ID))
	require.NoError(t, l.MarkRead(ctx, maria, "unknown"), "unknown ids are a no-op")

	n, err := l.UnreadCount(ctx, maria)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Another user cannot mark maria's notification.
	require.NoError(t, l.MarkRead(ctx, david, ns[1].ID))
	n, _ = l.UnreadCount(ctx, maria)
	assert.Equal(t, 1, n)
}

func TestMarkAllRead_OnlyTouchesCaller(t *testing.T) {
	l := setupLog(t, nil)
	ctx := context.Background()

	require.NoError(t, l.Notify(ctx, "1", models.NotificationExpiringSoon, "a", "", ""))
	require.NoError(t, l.Notify(ctx, "1", models.NotificationClaimed, "b", "", ""))
	require.NoError(t, l.Notify(ctx, "2", models.NotificationNewItem, "c", "", ""))

	require.NoError(t, l.MarkAllRead(ctx, maria))

	n, err := l.UnreadCount(ctx, maria)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = l.UnreadCount(ctx, david)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLog_RequiresUser(t *testing.T) {
	l := setupLog(t, nil)
	ctx := context.Background()

	_, err := l.List(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = l.UnreadCount(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, l.MarkRead(ctx, nil, "1"), ErrUnauthenticated)
	assert.ErrorIs(t, l.MarkAllRead(ctx, nil), ErrUnauthenticated)
}

func TestEncodeMessage(t *testing.T) {
	n := models.Notification{
		ID:        "n1",
		UserID:    "2",
		Type:      models.NotificationNewItem,
		Title:     "New Surplus Available",
		CreatedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}

	msg, err := encodeMessage(n)
	require.NoError(t, err)
	assert.Equal(t, "2", string(msg.Key), "messages are keyed by user")
	assert.Equal(t, n.CreatedAt, msg.Time)

	var decoded models.Notification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "n1", decoded.ID)
}

func TestNewKafkaMirror_DefaultTopic(t *testing.T) {
	m := NewKafkaMirror([]string{"localhost:9092"}, "")
	defer m.Close()
	assert.Equal(t, DefaultTopic, m.writer.Topic)
}
