package listings

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// ValidateDraft checks a draft against the creation rules as of now.
// Checks run in form order and the first failure is returned.
func ValidateDraft(d models.Draft, now time.Time) error {
	checks := []func() error{
		func() error { return required(FieldTitle, d.Title, "title is required") },
		func() error { return required(FieldDescription, d.Description, "description is required") },
		func() error {
			if !d.Category.Valid() {
				return invalid(FieldCategory, "unknown category")
			}
			return nil
		},
		func() error {
			if !positive(d.Quantity) {
				return invalid(FieldQuantity, "valid quantity is required")
			}
			return nil
		},
		func() error { return required(FieldUnit, d.Unit, "unit is required") },
		func() error {
			switch {
			case d.ExpiresAt.IsZero():
				return invalid(FieldExpiresAt, "expiry date is required")
			case !d.ExpiresAt.After(now):
				return invalid(FieldExpiresAt, "expiry date must be in the future")
			}
			return nil
		},
		func() error {
			switch {
			case d.AvailableUntil.IsZero():
				return invalid(FieldAvailableUntil, "available until date is required")
			case !d.AvailableUntil.Before(d.ExpiresAt):
				return invalid(FieldAvailableUntil, "available until must be before expiry date")
			case !d.AvailableUntil.After(now):
				return invalid(FieldAvailableUntil, "available until date must be in the future")
			}
			return nil
		},
		func() error {
			if !positive(d.EstimatedValue) {
				return invalid(FieldEstimatedValue, "valid estimated value is required")
			}
			return nil
		},
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func required(field, value, msg string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, msg)
	}
	return nil
}

// positive reports whether v is a finite number above zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// normalizeTags trims, lowercases and de-duplicates a tag set.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = fold(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
