// Package listings implements the surplus item store: role-filtered views,
// validated creation, reservation and the item status state machine.
package listings

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// Repository persists items. GetItem returns (nil, nil) for unknown ids.
type Repository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, error)
	// SwapItem stores next only if the stored status still equals prev.
	// It reports false when the status moved or the item vanished.
	SwapItem(ctx context.Context, next *models.Item, prev models.ItemStatus) (bool, error)
}

// Notifier publishes a notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ models.NotificationType, title, message, relatedItemID string) error
}

// supplierEdges are the transitions an owning supplier may apply.
var supplierEdges = map[models.ItemStatus][]models.ItemStatus{
	models.ItemStatusAvailable: {models.ItemStatusExpired},
	models.ItemStatusReserved:  {models.ItemStatusClaimed},
}

// Service is the item store.
type Service struct {
	repo   Repository
	notify Notifier
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier publishes reservation and pickup notifications through n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates an item store backed by repo.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the items visible to user in insertion order: a supplier's
// own items in any status, or every available item for a recipient.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.Item, error) {
	var f models.ItemFilter
	switch {
	case user == nil:
		return nil, ErrUnauthenticated
	case user.IsSupplier():
		f.RestaurantID = user.ID
	case user.IsRecipient():
		f.Status = models.ItemStatusAvailable
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, user.Role)
	}

	items, err := s.repo.ListItems(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get returns one item if user may see it.
func (s *Service) Get(ctx context.Context, user *models.User, id string) (*models.Item, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	item, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case user.IsSupplier() && item.RestaurantID == user.ID:
	case user.IsRecipient() && (item.Status == models.ItemStatusAvailable || item.ClaimedBy == user.ID):
	default:
		return nil, ErrNotFound
	}
	return item, nil
}

// Create validates draft and lists it as available under user's organization.
func (s *Service) Create(ctx context.Context, user *models.User, d models.Draft) (*models.Item, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !user.IsSupplier() {
		return nil, fmt.Errorf("%w: only restaurants can list items", ErrForbidden)
	}

	now := s.now()
	if err := ValidateDraft(d, now); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:             ulid.Make().String(),
		RestaurantID:   user.ID,
		RestaurantName: user.OrganizationName,
		Title:          strings.TrimSpace(d.Title),
		Description:    strings.TrimSpace(d.Description),
		Category:       d.Category,
		Quantity:       d.Quantity,
		Unit:           strings.TrimSpace(d.Unit),
		Dietary:        normalizeTags(d.Dietary),
		Allergens:      normalizeTags(d.Allergens),
		EstimatedValue: d.EstimatedValue,
		ExpiresAt:      d.ExpiresAt,
		AvailableUntil: d.AvailableUntil,
		Status:         models.ItemStatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	log.Printf("listings: %s listed %s (%s)", user.ID, item.ID, item.Title)
	return item, nil
}

// Reserve moves an available item to reserved on behalf of a recipient.
// Only one reservation can win; later callers get ErrConflict.
func (s *Service) Reserve(ctx context.Context, user *models.User, id string) (*models.Item, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !user.IsRecipient() {
		return nil, fmt.Errorf("%w: only charities can reserve items", ErrForbidden)
	}

	item, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.ItemStatusAvailable {
		return nil, fmt.Errorf("%w: item is %s", ErrConflict, item.Status)
	}

	now := s.now()
	next := item.Clone()
	next.Status = models.ItemStatusReserved
	next.ClaimedBy = user.ID
	next.ClaimedAt = &now
	next.UpdatedAt = now

	if err := s.swap(ctx, &next, models.ItemStatusAvailable); err != nil {
		return nil, err
	}

	log.Printf("listings: %s reserved %s", user.ID, next.ID)
	s.publish(ctx, next.RestaurantID, models.NotificationClaimed, "Item Reserved",
		fmt.Sprintf("%s reserved your %s", user.OrganizationName, next.Title), next.ID)
	return &next, nil
}

// SetStatus applies a supplier transition to one of the supplier's own items.
// Re-applying the current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, user *models.User, id string, status models.ItemStatus) (*models.Item, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !user.IsSupplier() {
		return nil, fmt.Errorf("%w: only restaurants can change item status", ErrForbidden)
	}
	if !status.Valid() {
		return nil, invalid(FieldStatus, fmt.Sprintf("unknown status %q", status))
	}

	item, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != user.ID {
		return nil, fmt.Errorf("%w: item belongs to another restaurant", ErrForbidden)
	}
	if item.Status == status {
		return item, nil
	}
	if !canMove(item.Status, status) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrConflict, item.Status, status)
	}

	prev := item.Status
	next := item.Clone()
	next.Status = status
	next.UpdatedAt = s.now()

	if err := s.swap(ctx, &next, prev); err != nil {
		return nil, err
	}

	log.Printf("listings: %s moved %s %s -> %s", user.ID, next.ID, prev, status)
	if status == models.ItemStatusClaimed && next.ClaimedBy != "" {
		s.publish(ctx, next.ClaimedBy, models.NotificationClaimed, "Pickup Confirmed",
			fmt.Sprintf("%s confirmed your pickup of %s", next.RestaurantName, next.Title), next.ID)
	}
	return &next, nil
}

// Collect confirms pickup of a reserved item (reserved -> claimed).
func (s *Service) Collect(ctx context.Context, user *models.User, id string) (*models.Item, error) {
	return s.SetStatus(ctx, user, id, models.ItemStatusClaimed)
}

// All returns every stored item regardless of owner or status.
// It backs reporting and is not exposed as a user view.
func (s *Service) All(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx, models.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *Service) lookup(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *Service) swap(ctx context.Context, next *models.Item, prev models.ItemStatus) error {
	ok, err := s.repo.SwapItem(ctx, next, prev)
	if err != nil {
		return fmt.Errorf("update item %s: %w", next.ID, err)
	}
	if !ok {
		return fmt.Errorf("%w: item %s is no longer %s", ErrConflict, next.ID, prev)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, userID string, typ models.NotificationType, title, msg, itemID string) {
	if s.notify == nil || userID == "" {
		return
	}
	if err := s.notify.Notify(ctx, userID, typ, title, msg, itemID); err != nil {
		log.Printf("listings: notify %s failed: %v", userID, err)
	}
}

func canMove(from, to models.ItemStatus) bool {
	for _, s := range supplierEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}
