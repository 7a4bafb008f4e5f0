package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jredh-dev/foodshare/pkg/models"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func item(id, restaurantID, name string, status models.ItemStatus, value float64) models.Item {
	return models.Item{
		ID:             id,
		RestaurantID:   restaurantID,
		RestaurantName: name,
		Category:       models.CategoryPrepared,
		Quantity:       1,
		Unit:           "portions",
		EstimatedValue: value,
		Status:         status,
		ExpiresAt:      now.Add(48 * time.Hour),
		CreatedAt:      now.Add(-time.Hour),
	}
}

func expiring(it models.Item, in time.Duration) models.Item {
	it.ExpiresAt = now.Add(in)
	return it
}

func TestSupplierDashboard(t *testing.T) {
	items := []models.Item{
		expiring(item("a", "r1", "Bella Italia", models.ItemStatusAvailable, 96), 2*time.Hour),
		expiring(item("b", "r1", "Bella Italia", models.ItemStatusAvailable, 42), 10*time.Hour),
		item("c", "r1", "Bella Italia", models.ItemStatusReserved, 90),
		item("d", "r1", "Bella Italia", models.ItemStatusClaimed, 30),
		item("e", "r1", "Bella Italia", models.ItemStatusExpired, 20),
	}

	got := SupplierDashboard(items, now)
	assert.Equal(t, SupplierStats{TotalActive: 2, ExpiringSoon: 1, TotalValue: 258, Claimed: 2}, got)
}

func TestRecipientDashboard(t *testing.T) {
	items := []models.Item{
		expiring(item("a", "r1", "Bella Italia", models.ItemStatusAvailable, 96), 2*time.Hour),
		expiring(item("b", "r1", "Bella Italia", models.ItemStatusAvailable, 42), 10*time.Hour),
		expiring(item("f", "r2", "Urban Bistro", models.ItemStatusAvailable, 10), 30*time.Hour),
		item("c", "r3", "Corner Cafe", models.ItemStatusReserved, 90),
	}

	got := RecipientDashboard(items, now)
	assert.Equal(t, RecipientStats{AvailableItems: 3, TotalValue: 148, ExpiringToday: 2, Suppliers: 2}, got)
}

func TestDashboard_Empty(t *testing.T) {
	assert.Equal(t, SupplierStats{}, SupplierDashboard(nil, now))
	assert.Equal(t, RecipientStats{}, RecipientDashboard(nil, now))
}

func TestBuildReport(t *testing.T) {
	s1 := item("s1", "r1", "Bella Italia", models.ItemStatusReserved, 96)
	s1.Quantity = 12
	s1.CreatedAt = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	s2 := item("s2", "r1", "Bella Italia", models.ItemStatusClaimed, 42)
	s2.Category = models.CategoryBaked
	s2.Quantity, s2.Unit = 6, "loaves"
	s2.CreatedAt = time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)

	s3 := item("s3", "r2", "Urban Bistro", models.ItemStatusClaimed, 20)
	s3.Category = models.CategoryDairy
	s3.Quantity, s3.Unit = 2, "kg"
	s3.CreatedAt = time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC)

	s4 := item("s4", "r3", "Corner Cafe", models.ItemStatusClaimed, 20)
	s4.Category = models.CategoryProduce
	s4.Quantity, s4.Unit = 10, "crates"
	s4.CreatedAt = time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	unshared := item("u", "r1", "Bella Italia", models.ItemStatusAvailable, 100)

	r := BuildReport([]models.Item{s1, s2, s3, s4, unshared}, now)

	assert.Equal(t, 4, r.TotalItemsShared)
	assert.InDelta(t, 178, r.TotalValueSaved, 1e-9)
	assert.Equal(t, map[models.Category]int{
		models.CategoryPrepared:    1,
		models.CategoryIngredients: 0,
		models.CategoryBaked:       1,
		models.CategoryDairy:       1,
		models.CategoryProduce:     1,
	}, r.ItemsByCategory)

	require.Len(t, r.MonthlyTrends, 6)
	assert.Equal(t, "2026-05", r.MonthlyTrends[0].Month)
	assert.Equal(t, "May", r.MonthlyTrends[0].Label)
	sep, oct := r.MonthlyTrends[4], r.MonthlyTrends[5]
	assert.Equal(t, MonthlyTrend{Month: "2026-09", Label: "Sep", Items: 1, Value: 42}, sep)
	assert.Equal(t, MonthlyTrend{Month: "2026-10", Label: "Oct", Items: 2, Value: 116}, oct)

	assert.Equal(t, []SupplierTotal{
		{Name: "Bella Italia", Items: 2, Value: 138},
		{Name: "Corner Cafe", Items: 1, Value: 20},
		{Name: "Urban Bistro", Items: 1, Value: 20},
	}, r.TopSuppliers)

	// 12 portions (4.8kg) + 6 loaves (3kg) + 2kg + 10 crates at the default (5kg).
	assert.Equal(t, 16, r.ImpactMetrics.MealsProvided)
	assert.InDelta(t, 14.8, r.ImpactMetrics.WasteReducedKg, 1e-9)
	assert.InDelta(t, 22.2, r.ImpactMetrics.CO2SavedKg, 1e-9)
	assert.Equal(t, now, r.GeneratedAt)
}

func TestBuildReport_TopSuppliersCapped(t *testing.T) {
	var items []models.Item
	for i := 0; i < 6; i++ {
		for n := 0; n <= i; n++ {
			id := fmt.Sprintf("r%d", i)
			items = append(items, item(fmt.Sprintf("%s-%d", id, n), id, "Supplier "+id, models.ItemStatusClaimed, 10))
		}
	}

	r := BuildReport(items, now)
	require.Len(t, r.TopSuppliers, 4)
	assert.Equal(t, "Supplier r5", r.TopSuppliers[0].Name)
	assert.Equal(t, 6, r.TopSuppliers[0].Items)
	assert.Equal(t, "Supplier r2", r.TopSuppliers[3].Name)
}

func TestBuildReport_NoItems(t *testing.T) {
	r := BuildReport(nil, now)
	assert.Zero(t, r.TotalItemsShared)
	assert.Len(t, r.ItemsByCategory, len(models.Categories))
	assert.Len(t, r.MonthlyTrends, 6)
	assert.Empty(t, r.TopSuppliers)
	assert.Equal(t, Impact{}, r.ImpactMetrics)
}

func TestEstimateWeightKg(t *testing.T) {
	tests := []struct {
		qty  float64
		unit string
		want float64
	}{
		{2, "kg", 2},
		{500, "g", 0.5},
		{10, "lbs", 4.536},
		{5, " Portions ", 2},
		{4, "trays", 2},
	}
	for _, tt := range tests {
		got := EstimateWeightKg(models.Item{Quantity: tt.qty, Unit: tt.unit})
		assert.InDelta(t, tt.want, got, 1e-9, "%v %s", tt.qty, tt.unit)
	}
}

type fakeSource struct {
	visible []models.Item
	all     []models.Item
}

func (f *fakeSource) List(context.Context, *models.User) ([]models.Item, error) {
	return f.visible, nil
}

func (f *fakeSource) All(context.Context) ([]models.Item, error) {
	return f.all, nil
}

func TestService_DashboardByRole(t *testing.T) {
	src := &fakeSource{visible: []models.Item{item("a", "r1", "Bella Italia", models.ItemStatusAvailable, 50)}}
	svc := New(src)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, &models.User{ID: "r1", Role: models.RoleRestaurant})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRestaurant, d.Role)
	require.NotNil(t, d.Supplier)
	assert.Nil(t, d.Recipient)
	assert.Equal(t, 1, d.Supplier.TotalActive)

	d, err = svc.Dashboard(ctx, &models.User{ID: "c1", Role: models.RoleCharity})
	require.NoError(t, err)
	require.NotNil(t, d.Recipient)
	assert.Nil(t, d.Supplier)
	assert.Equal(t, 1, d.Recipient.Suppliers)
}

func TestService_Report(t *testing.T) {
	src := &fakeSource{all: []models.Item{
		item("a", "r1", "Bella Italia", models.ItemStatusClaimed, 50),
		item("b", "r1", "Bella Italia", models.ItemStatusAvailable, 50),
	}}
	svc := New(src)
	svc.now = func() time.Time { return now }

	r, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalItemsShared)
	assert.InDelta(t, 50, r.TotalValueSaved, 1e-9)
}
