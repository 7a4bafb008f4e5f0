package models

import "time"

// ItemStatus represents the lifecycle state of a listing.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusReserved  ItemStatus = "reserved"
	ItemStatusClaimed   ItemStatus = "claimed"
	ItemStatusExpired   ItemStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusReserved, ItemStatusClaimed, ItemStatusExpired:
		return true
	}
	return false
}

// Category is the closed set of food kinds.
type Category string

const (
	CategoryPrepared    Category = "prepared"
	CategoryIngredients Category = "ingredients"
	CategoryBaked       Category = "baked"
	CategoryDairy       Category = "dairy"
	CategoryProduce     Category = "produce"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPrepared,
	CategoryIngredients,
	CategoryBaked,
	CategoryDairy,
	CategoryProduce,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Item is one listing of surplus food.
type Item struct {
	ID             string     `json:"id"`
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       Category   `json:"category"`
	Quantity       float64    `json:"quantity"`
	Unit           string     `json:"unit"`
	Dietary        []string   `json:"dietary"`
	Allergens      []string   `json:"allergens"`
	EstimatedValue float64    `json:"estimated_value"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AvailableUntil time.Time  `json:"available_until"`
	Status         ItemStatus `json:"status"`
	ClaimedBy      string     `json:"claimed_by,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Clone returns a deep copy so callers can't alias stored slices.
// Tag sets are never nil in the copy.
func (i Item) Clone() Item {
	out := i
	out.Dietary = CopyTags(i.Dietary)
	out.Allergens = CopyTags(i.Allergens)
	if i.ClaimedAt != nil {
		t := *i.ClaimedAt
		out.ClaimedAt = &t
	}
	return out
}

// CopyTags copies a tag set; nil becomes an empty set so it encodes as [].
func CopyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// HasDietary reports whether the item carries the given dietary tag.
func (i Item) HasDietary(tag string) bool {
	for _, d := range i.Dietary {
		if d == tag {
			return true
		}
	}
	return false
}

// Draft is the supplier-provided part of a new listing.
type Draft struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       Category  `json:"category"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	Dietary        []string  `json:"dietary"`
	Allergens      []string  `json:"allergens"`
	EstimatedValue float64   `json:"estimated_value"`
	ExpiresAt      time.Time `json:"expires_at"`
	AvailableUntil time.Time `json:"available_until"`
}

// ItemFilter narrows a repository listing. Zero fields match everything.
type ItemFilter struct {
	RestaurantID string
	Status       ItemStatus
}
