// Package fixtures loads demo accounts, items and notifications from YAML.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jredh-dev/foodshare/internal/auth"
	"github.com/jredh-dev/foodshare/internal/listings"
	"github.com/jredh-dev/foodshare/internal/notifications"
	"github.com/jredh-dev/foodshare/pkg/models"
)

//go:embed demo.yaml
var demoYAML []byte

// File is a parsed fixture document.
type File struct {
	Users         []User         `yaml:"users"`
	Items         []Item         `yaml:"items"`
	Notifications []Notification `yaml:"notifications"`
}

// User is a directory account with its plaintext demo password.
type User struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

// Item is a listing whose times are offsets from the seeding moment.
type Item struct {
	ID             string            `yaml:"id"`
	RestaurantID   string            `yaml:"restaurant_id"`
	Title          string            `yaml:"title"`
	Description    string            `yaml:"description"`
	Category       models.Category   `yaml:"category"`
	Quantity       float64           `yaml:"quantity"`
	Unit           string            `yaml:"unit"`
	EstimatedValue float64           `yaml:"estimated_value"`
	Dietary        []string          `yaml:"dietary"`
	Allergens      []string          `yaml:"allergens"`
	Status         models.ItemStatus `yaml:"status"`
	ClaimedBy      string            `yaml:"claimed_by"`
	ExpiresIn      time.Duration     `yaml:"expires_in"`
	AvailableFor   time.Duration     `yaml:"available_for"`
	CreatedAgo     time.Duration     `yaml:"created_ago"`
	ClaimedAgo     time.Duration     `yaml:"claimed_ago"`
}

// Notification is a log entry whose creation time is an offset.
type Notification struct {
	ID            string                  `yaml:"id"`
	UserID        string                  `yaml:"user_id"`
	Type          models.NotificationType `yaml:"type"`
	Title         string                  `yaml:"title"`
	Message       string                  `yaml:"message"`
	Read          bool                    `yaml:"read"`
	RelatedItemID string                  `yaml:"related_item_id"`
	CreatedAgo    time.Duration           `yaml:"created_ago"`
}

// Demo returns the embedded demo fixture.
func Demo() (*File, error) {
	return Parse(demoYAML)
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a fixture document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	users := make(map[string]models.Role, len(f.Users))
	for _, u := range f.Users {
		if u.ID == "" || u.Email == "" || u.Password == "" {
			return fmt.Errorf("fixture user %q: id, email and password are required", u.ID)
		}
		users[u.ID] = u.Role
	}

	items := make(map[string]bool, len(f.Items))
	for _, it := range f.Items {
		if users[it.RestaurantID] != models.RoleRestaurant {
			return fmt.Errorf("fixture item %s: restaurant %q is not a restaurant user", it.ID, it.RestaurantID)
		}
		if !it.Category.Valid() {
			return fmt.Errorf("fixture item %s: unknown category %q", it.ID, it.Category)
		}
		if !it.Status.Valid() {
			return fmt.Errorf("fixture item %s: unknown status %q", it.ID, it.Status)
		}
		if it.AvailableFor >= it.ExpiresIn {
			return fmt.Errorf("fixture item %s: available_for must be before expires_in", it.ID)
		}
		if it.ClaimedBy != "" && users[it.ClaimedBy] != models.RoleCharity {
			return fmt.Errorf("fixture item %s: claimed_by %q is not a charity user", it.ID, it.ClaimedBy)
		}
		items[it.ID] = true
	}

	for _, n := range f.Notifications {
		if _, ok := users[n.UserID]; !ok {
			return fmt.Errorf("fixture notification %s: unknown user %q", n.ID, n.UserID)
		}
		if n.RelatedItemID != "" && !items[n.RelatedItemID] {
			return fmt.Errorf("fixture notification %s: unknown item %q", n.ID, n.RelatedItemID)
		}
	}
	return nil
}

// SeedUsers registers the fixture accounts in dir.
func (f *File) SeedUsers(dir *auth.Directory) error {
	for _, u := range f.Users {
		if _, err := dir.Add(u.User, u.Password); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}
	return nil
}

// SeedItems writes the fixture items relative to now. Items that already
// exist are left alone so persistent stores can be reseeded on restart.
func (f *File) SeedItems(ctx context.Context, repo listings.Repository, now time.Time) error {
	names := make(map[string]string, len(f.Users))
	for _, u := range f.Users {
		names[u.ID] = u.OrganizationName
	}

	created := 0
	for _, it := range f.Items {
		existing, err := repo.GetItem(ctx, it.ID)
		if err != nil {
			return fmt.Errorf("seed item %s: %w", it.ID, err)
		}
		if existing != nil {
			continue
		}

		item := it.model(names[it.RestaurantID], now)
		if err := repo.CreateItem(ctx, &item); err != nil {
			return fmt.Errorf("seed item %s: %w", it.ID, err)
		}
		created++
	}
	log.Printf("fixtures: seeded %d of %d items", created, len(f.Items))
	return nil
}

// SeedNotifications appends the fixture notifications that are not yet logged.
func (f *File) SeedNotifications(ctx context.Context, repo notifications.Repository, now time.Time) error {
	seen := make(map[string]map[string]bool)
	created := 0
	for _, n := range f.Notifications {
		if seen[n.UserID] == nil {
			existing, err := repo.ListNotifications(ctx, n.UserID)
			if err != nil {
				return fmt.Errorf("seed notifications: %w", err)
			}
			seen[n.UserID] = make(map[string]bool, len(existing))
			for _, e := range existing {
				seen[n.UserID][e.ID] = true
			}
		}
		if seen[n.UserID][n.ID] {
			continue
		}

		note := models.Notification{
			ID:            n.ID,
			UserID:        n.UserID,
			Type:          n.Type,
			Title:         n.Title,
			Message:       n.Message,
			Read:          n.Read,
			CreatedAt:     now.Add(-n.CreatedAgo),
			RelatedItemID: n.RelatedItemID,
		}
		if err := repo.AppendNotification(ctx, &note); err != nil {
			return fmt.Errorf("seed notification %s: %w", n.ID, err)
		}
		seen[n.UserID][n.ID] = true
		created++
	}
	log.Printf("fixtures: seeded %d of %d notifications", created, len(f.Notifications))
	return nil
}

func (it Item) model(restaurantName string, now time.Time) models.Item {
	created := now.Add(-it.CreatedAgo)
	item := models.Item{
		ID:             it.ID,
		RestaurantID:   it.RestaurantID,
		RestaurantName: restaurantName,
		Title:          it.Title,
		Description:    it.Description,
		Category:       it.Category,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		Dietary:        models.CopyTags(it.Dietary),
		Allergens:      models.CopyTags(it.Allergens),
		EstimatedValue: it.EstimatedValue,
		ExpiresAt:      now.Add(it.ExpiresIn),
		AvailableUntil: now.Add(it.AvailableFor),
		Status:         it.Status,
		ClaimedBy:      it.ClaimedBy,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if it.ClaimedBy != "" {
		claimed := now.Add(-it.ClaimedAgo)
		item.ClaimedAt = &claimed
		item.UpdatedAt = claimed
	}
	return item
}
