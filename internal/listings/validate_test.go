package listings

import (
	"math"
	"testing"
	"time"

	"github.com/jredh-dev/foodshare/pkg/models"
)

func TestValidateDraft(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mutate    func(d *models.Draft)
		wantField string
	}{
		{name: "valid draft", mutate: func(d *models.Draft) {}},
		{name: "blank title", mutate: func(d *models.Draft) { d.Title = "   " }, wantField: FieldTitle},
		{name: "blank description", mutate: func(d *models.Draft) { d.Description = "" }, wantField: FieldDescription},
		{name: "unknown category", mutate: func(d *models.Draft) { d.Category = "frozen" }, wantField: FieldCategory},
		{name: "zero quantity", mutate: func(d *models.Draft) { d.Quantity = 0 }, wantField: FieldQuantity},
		{name: "negative quantity", mutate: func(d *models.Draft) { d.Quantity = -3 }, wantField: FieldQuantity},
		{name: "NaN quantity", mutate: func(d *models.Draft) { d.Quantity = math.NaN() }, wantField: FieldQuantity},
		{name: "infinite quantity", mutate: func(d *models.Draft) { d.Quantity = math.Inf(1) }, wantField: FieldQuantity},
		{name: "blank unit", mutate: func(d *models.Draft) { d.Unit = "" }, wantField: FieldUnit},
		{name: "missing expiry", mutate: func(d *models.Draft) { d.ExpiresAt = time.Time{} }, wantField: FieldExpiresAt},
		{name: "expiry in the past", mutate: func(d *models.Draft) { d.ExpiresAt = now.Add(-time.Minute) }, wantField: FieldExpiresAt},
		{name: "expiry equals now", mutate: func(d *models.Draft) { d.ExpiresAt = now }, wantField: FieldExpiresAt},
		{name: "missing available until", mutate: func(d *models.Draft) { d.AvailableUntil = time.Time{} }, wantField: FieldAvailableUntil},
		{
			name:      "available until equals expiry",
			mutate:    func(d *models.Draft) { d.AvailableUntil = d.ExpiresAt },
			wantField: FieldAvailableUntil,
		},
		{
			name:      "available until in the past",
			mutate:    func(d *models.Draft) { d.AvailableUntil = now.Add(-time.Hour) },
			wantField: FieldAvailableUntil,
		},
		{name: "zero value", mutate: func(d *models.Draft) { d.EstimatedValue = 0 }, wantField: FieldEstimatedValue},
		{name: "NaN value", mutate: func(d *models.Draft) { d.EstimatedValue = math.NaN() }, wantField: FieldEstimatedValue},
		{name: "infinite value", mutate: func(d *models.Draft) { d.EstimatedValue = math.Inf(1) }, wantField: FieldEstimatedValue},
		{
			name: "first failing field wins",
			mutate: func(d *models.Draft) {
				d.Unit = ""
				d.EstimatedValue = 0
			},
			wantField: FieldUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := pastaDraft(now)
			tt.mutate(&d)

			err := ValidateDraft(d, now)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateDraft: unexpected error %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateDraft error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q (%s)", verr.Field, tt.wantField, verr.Message)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Vegan", "vegetarian", "VEGAN", "", "gluten-free"})
	want := []string{"gluten-free", "vegan", "vegetarian"}
	if len(got) != len(want) {
		t.Fatalf("normalizeTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("normalizeTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
