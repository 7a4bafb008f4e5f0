// Package cloudstore stores items and notifications in Cloud Firestore.
package cloudstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jredh-dev/foodshare/pkg/models"
)

const (
	itemsCollection         = "items"
	notificationsCollection = "notifications"
)

// errStale aborts a swap transaction whose precondition no longer holds.
var errStale = errors.New("stale item status")

// Config selects the Firebase project and database.
type Config struct {
	ProjectID       string
	CredentialsPath string
	Database        string
}

// Store wraps a Firestore client.
type Store struct {
	client *firestore.Client
}

// Open connects to Firestore. FIRESTORE_EMULATOR_HOST is honored by the client.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	if cfg.Database != "" && cfg.Database != firestore.DefaultDatabaseID {
		client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.Database, opts...)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		return &Store{client: client}, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// --- Item operations ---

// CreateItem writes a new item document; an existing ID is an error.
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	_, err := s.client.Collection(itemsCollection).Doc(item.ID).Create(ctx, toItemDoc(item))
	return err
}

// GetItem returns an item by ID, or nil if it does not exist.
func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	snap, err := s.client.Collection(itemsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeItem(snap)
}

// ListItems returns items matching f in insertion order.
func (s *Store) ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, error) {
	q := s.client.Collection(itemsCollection).Query
	if f.RestaurantID != "" {
		q = q.Where("restaurant_id", "==", f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	iter := q.OrderBy("inserted_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var items []models.Item
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		item, err := decodeItem(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// SwapItem replaces the document inside a transaction if its status is still prev.
func (s *Store) SwapItem(ctx context.Context, next *models.Item, prev models.ItemStatus) (bool, error) {
	ref := s.client.Collection(itemsCollection).Doc(next.ID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return errStale
		}
		if err != nil {
			return err
		}
		var current itemDoc
		if err := snap.DataTo(&current); err != nil {
			return fmt.Errorf("decode item %s: %w", next.ID, err)
		}
		if models.ItemStatus(current.Status) != prev {
			return errStale
		}
		doc := toItemDoc(next)
		doc.InsertedAt = current.InsertedAt
		return tx.Set(ref, doc)
	})
	if errors.Is(err, errStale) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// --- Notification operations ---

// AppendNotification writes a notification document.
func (s *Store) AppendNotification(ctx context.Context, n *models.Notification) error {
	_, err := s.client.Collection(notificationsCollection).Doc(n.ID).Set(ctx, toNotificationDoc(n))
	return err
}

// ListNotifications returns a user's notifications in insertion order.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	iter := s.userNotifications(userID).OrderBy("inserted_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []models.Notification
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var doc notificationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.model())
	}
	return out, nil
}

// MarkNotificationRead marks one of the user's notifications read.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	ref := s.client.Collection(notificationsCollection).Doc(id)
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var doc notificationDoc
	if err := snap.DataTo(&doc); err != nil {
		return err
	}
	if doc.UserID != userID {
		return nil
	}
	_, err = ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}})
	return err
}

// MarkAllNotificationsRead marks every unread notification of the user read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	iter := s.userNotifications(userID).Where("read", "==", false).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return err
		}
		if _, err := bw.Update(snap.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			bw.End()
			return err
		}
	}
	bw.End()
	return nil
}

func (s *Store) userNotifications(userID string) firestore.Query {
	return s.client.Collection(notificationsCollection).Where("user_id", "==", userID)
}

// --- document mapping ---

type itemDoc struct {
	RestaurantID   string     `firestore:"restaurant_id"`
	RestaurantName string     `firestore:"restaurant_name"`
	Title          string     `firestore:"title"`
	Description    string     `firestore:"description"`
	Category       string     `firestore:"category"`
	Quantity       float64    `firestore:"quantity"`
	Unit           string     `firestore:"unit"`
	Dietary        []string   `firestore:"dietary"`
	Allergens      []string   `firestore:"allergens"`
	EstimatedValue float64    `firestore:"estimated_value"`
	ExpiresAt      time.Time  `firestore:"expires_at"`
	AvailableUntil time.Time  `firestore:"available_until"`
	Status         string     `firestore:"status"`
	ClaimedBy      string     `firestore:"claimed_by"`
	ClaimedAt      *time.Time `firestore:"claimed_at"`
	CreatedAt      time.Time  `firestore:"created_at"`
	UpdatedAt      time.Time  `firestore:"updated_at"`
	InsertedAt     time.Time  `firestore:"inserted_at,serverTimestamp"` // server-set on first write
}

func toItemDoc(item *models.Item) itemDoc {
	return itemDoc{
		RestaurantID:   item.RestaurantID,
		RestaurantName: item.RestaurantName,
		Title:          item.Title,
		Description:    item.Description,
		Category:       string(item.Category),
		Quantity:       item.Quantity,
		Unit:           item.Unit,
		Dietary:        item.Dietary,
		Allergens:      item.Allergens,
		EstimatedValue: item.EstimatedValue,
		ExpiresAt:      item.ExpiresAt,
		AvailableUntil: item.AvailableUntil,
		Status:         string(item.Status),
		ClaimedBy:      item.ClaimedBy,
		ClaimedAt:      item.ClaimedAt,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

func (d itemDoc) model(id string) models.Item {
	return models.Item{
		ID:             id,
		RestaurantID:   d.RestaurantID,
		RestaurantName: d.RestaurantName,
		Title:          d.Title,
		Description:    d.Description,
		Category:       models.Category(d.Category),
		Quantity:       d.Quantity,
		Unit:           d.Unit,
		Dietary:        models.CopyTags(d.Dietary),
		Allergens:      models.CopyTags(d.Allergens),
		EstimatedValue: d.EstimatedValue,
		ExpiresAt:      d.ExpiresAt,
		AvailableUntil: d.AvailableUntil,
		Status:         models.ItemStatus(d.Status),
		ClaimedBy:      d.ClaimedBy,
		ClaimedAt:      d.ClaimedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func decodeItem(snap *firestore.DocumentSnapshot) (*models.Item, error) {
	var doc itemDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", snap.Ref.ID, err)
	}
	item := doc.model(snap.Ref.ID)
	return &item, nil
}

type notificationDoc struct {
	ID            string    `firestore:"id"`
	UserID        string    `firestore:"user_id"`
	Type          string    `firestore:"type"`
	Title         string    `firestore:"title"`
	Message       string    `firestore:"message"`
	Read          bool      `firestore:"read"`
	RelatedItemID string    `firestore:"related_item_id"`
	CreatedAt     time.Time `firestore:"created_at"`
	InsertedAt    time.Time `firestore:"inserted_at,serverTimestamp"`
}

func toNotificationDoc(n *models.Notification) notificationDoc {
	return notificationDoc{
		ID:            n.ID,
		UserID:        n.UserID,
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		Read:          n.Read,
		RelatedItemID: n.RelatedItemID,
		CreatedAt:     n.CreatedAt,
	}
}

func (d notificationDoc) model() models.Notification {
	return models.Notification{
		ID:            d.ID,
		UserID:        d.UserID,
		Type:          models.NotificationType(d.Type),
		Title:         d.Title,
		Message:       d.Message,
		Read:          d.Read,
		RelatedItemID: d.RelatedItemID,
		CreatedAt:     d.CreatedAt,
	}
}
