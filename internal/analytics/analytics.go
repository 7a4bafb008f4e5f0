// Package analytics derives dashboard statistics and the impact report from
// the items currently held by the item store.
package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jredh-dev/foodshare/internal/listings"
	"github.com/jredh-dev/foodshare/pkg/models"
)

const (
	expiringSoonWindow  = 4 * time.Hour
	expiringTodayWindow = 24 * time.Hour

	mealsPerItem   = 4
	co2PerKgWasted = 1.5
	trendMonths    = 6
	topSupplierCap = 4
)

// kgPerUnit estimates the weight of one unit of a listing.
var kgPerUnit = map[string]float64{
	"kg":       1,
	"kgs":      1,
	"g":        0.001,
	"lb":       0.4536,
	"lbs":      0.4536,
	"portion":  0.4,
	"portions": 0.4,
	"serving":  0.4,
	"servings": 0.4,
	"loaf":     0.5,
	"loaves":   0.5,
	"liter":    1,
	"liters":   1,
	"l":        1,
}

const defaultKgPerUnit = 0.5

// ItemSource is the item store as seen by reporting.
type ItemSource interface {
	List(ctx context.Context, user *models.User) ([]models.Item, error)
	All(ctx context.Context) ([]models.Item, error)
}

// Service computes statistics on request.
type Service struct {
	items ItemSource
	now   func() time.Time
}

// New creates an analytics service reading from items.
func New(items ItemSource) *Service {
	return &Service{items: items, now: time.Now}
}

// SupplierStats are the headline numbers on a restaurant dashboard.
type SupplierStats struct {
	TotalActive  int     `json:"total_active"`
	ExpiringSoon int     `json:"expiring_soon"`
	TotalValue   float64 `json:"total_value"`
	Claimed      int     `json:"claimed"`
}

// RecipientStats are the headline numbers on a charity dashboard.
type RecipientStats struct {
	AvailableItems int     `json:"available_items"`
	TotalValue     float64 `json:"total_value"`
	ExpiringToday  int     `json:"expiring_today"`
	Suppliers      int     `json:"suppliers"`
}

// Dashboard holds the stats for the caller's role; exactly one is set.
type Dashboard struct {
	Role      models.Role     `json:"role"`
	Supplier  *SupplierStats  `json:"supplier,omitempty"`
	Recipient *RecipientStats `json:"recipient,omitempty"`
}

// Dashboard computes the role-specific stats over the items user can see.
func (s *Service) Dashboard(ctx context.Context, user *models.User) (*Dashboard, error) {
	items, err := s.items.List(ctx, user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &Dashboard{Role: user.Role}
	if user.IsSupplier() {
		stats := SupplierDashboard(items, now)
		d.Supplier = &stats
	} else {
		stats := RecipientDashboard(items, now)
		d.Recipient = &stats
	}
	return d, nil
}

// SupplierDashboard summarizes a restaurant's own items.
func SupplierDashboard(items []models.Item, now time.Time) SupplierStats {
	var st SupplierStats
	for _, it := range items {
		switch it.Status {
		case models.ItemStatusAvailable:
			st.TotalActive++
			if listings.ExpiresWithin(it.ExpiresAt, now, expiringSoonWindow) {
				st.ExpiringSoon++
			}
		case models.ItemStatusReserved, models.ItemStatusClaimed:
			st.Claimed++
		}
		if it.Status != models.ItemStatusExpired {
			st.TotalValue += it.EstimatedValue
		}
	}
	return st
}

// RecipientDashboard summarizes the items a charity can reserve.
func RecipientDashboard(items []models.Item, now time.Time) RecipientStats {
	var st RecipientStats
	suppliers := make(map[string]bool)
	for _, it := range items {
		if it.Status != models.ItemStatusAvailable {
			continue
		}
		st.AvailableItems++
		st.TotalValue += it.EstimatedValue
		if listings.ExpiresWithin(it.ExpiresAt, now, expiringTodayWindow) {
			st.ExpiringToday++
		}
		suppliers[it.RestaurantName] = true
	}
	st.Suppliers = len(suppliers)
	return st
}

// MonthlyTrend is the shared volume for one calendar month.
type MonthlyTrend struct {
	Month string  `json:"month"` // YYYY-MM
	Label string  `json:"label"` // Jan, Feb, ...
	Items int     `json:"items"`
	Value float64 `json:"value"`
}

// SupplierTotal ranks a restaurant by what it has shared.
type SupplierTotal struct {
	Name  string  `json:"name"`
	Items int     `json:"items"`
	Value float64 `json:"value"`
}

// Impact estimates the environmental and social effect of shared items.
type Impact struct {
	MealsProvided  int     `json:"meals_provided"`
	WasteReducedKg float64 `json:"waste_reduced_kg"`
	CO2SavedKg     float64 `json:"co2_saved_kg"`
}

// Report is the system-wide impact report.
type Report struct {
	TotalItemsShared int                     `json:"total_items_shared"`
	TotalValueSaved  float64                 `json:"total_value_saved"`
	ItemsByCategory  map[models.Category]int `json:"items_by_category"`
	MonthlyTrends    []MonthlyTrend          `json:"monthly_trends"`
	TopSuppliers     []SupplierTotal         `json:"top_suppliers"`
	ImpactMetrics    Impact                  `json:"impact_metrics"`
	GeneratedAt      time.Time               `json:"generated_at"`
}

// Report computes the impact report over every stored item.
func (s *Service) Report(ctx context.Context) (*Report, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, err
	}
	r := BuildReport(items, s.now())
	return &r, nil
}

// BuildReport computes the impact report. An item counts as shared once a
// charity has reserved or collected it.
func BuildReport(items []models.Item, now time.Time) Report {
	r := Report{
		ItemsByCategory: make(map[models.Category]int, len(models.Categories)),
		MonthlyTrends:   lastMonths(now, trendMonths),
		GeneratedAt:     now,
	}
	for _, c := range models.Categories {
		r.ItemsByCategory[c] = 0
	}

	months := make(map[string]int, len(r.MonthlyTrends))
	for i, m := range r.MonthlyTrends {
		months[m.Month] = i
	}
	suppliers := make(map[string]*SupplierTotal)

	for _, it := range items {
		if !shared(it) {
			continue
		}
		r.TotalItemsShared++
		r.TotalValueSaved += it.EstimatedValue
		r.ItemsByCategory[it.Category]++
		r.ImpactMetrics.WasteReducedKg += EstimateWeightKg(it)

		if i, ok := months[it.CreatedAt.In(now.Location()).Format("2006-01")]; ok {
			r.MonthlyTrends[i].Items++
			r.MonthlyTrends[i].Value += it.EstimatedValue
		}

		st, ok := suppliers[it.RestaurantID]
		if !ok {
			st = &SupplierTotal{Name: it.RestaurantName}
			suppliers[it.RestaurantID] = st
		}
		st.Items++
		st.Value += it.EstimatedValue
	}

	r.TopSuppliers = rankSuppliers(suppliers, topSupplierCap)
	r.ImpactMetrics.MealsProvided = r.TotalItemsShared * mealsPerItem
	r.ImpactMetrics.CO2SavedKg = r.ImpactMetrics.WasteReducedKg * co2PerKgWasted
	return r
}

// EstimateWeightKg converts an item's quantity into kilograms.
func EstimateWeightKg(it models.Item) float64 {
	per, ok := kgPerUnit[strings.ToLower(strings.TrimSpace(it.Unit))]
	if !ok {
		per = defaultKgPerUnit
	}
	return it.Quantity * per
}

func shared(it models.Item) bool {
	return it.Status == models.ItemStatusReserved || it.Status == models.ItemStatusClaimed
}

// lastMonths returns n empty trend buckets ending with now's month, oldest first.
func lastMonths(now time.Time, n int) []MonthlyTrend {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthlyTrend, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i-(n-1), 0)
		out[i] = MonthlyTrend{Month: m.Format("2006-01"), Label: m.Format("Jan")}
	}
	return out
}

func rankSuppliers(totals map[string]*SupplierTotal, limit int) []SupplierTotal {
	out := make([]SupplierTotal, 0, len(totals))
	for _, st := range totals {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Items != out[j].Items {
			return out[i].Items > out[j].Items
		}
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
