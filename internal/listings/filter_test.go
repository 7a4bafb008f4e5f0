package listings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jredh-dev/foodshare/pkg/models"
)

func TestQueryApply(t *testing.T) {
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	items := []models.Item{
		{ID: "pasta", Title: "Fresh Pasta", Description: "fettuccine", Category: models.CategoryPrepared, Dietary: []string{"vegetarian"}, CreatedAt: base},
		{ID: "salad", Title: "Mixed Greens", Description: "organic salad", Category: models.CategoryPrepared, Dietary: []string{"vegan", "vegetarian"}, CreatedAt: base.Add(time.Hour)},
		{ID: "bread", Title: "Sourdough", Description: "fresh loaves", Category: models.CategoryBaked, CreatedAt: base.Add(-time.Hour)},
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{name: "zero query keeps order", q: Query{}, want: []string{"pasta", "salad", "bread"}},
		{name: "search title and description", q: Query{Search: "FRESH"}, want: []string{"pasta", "bread"}},
		{name: "category", q: Query{Category: models.CategoryBaked}, want: []string{"bread"}},
		{name: "dietary", q: Query{Dietary: "Vegan"}, want: []string{"salad"}},
		{name: "combined", q: Query{Search: "e", Dietary: "vegetarian", Category: models.CategoryPrepared}, want: []string{"pasta", "salad"}},
		{name: "newest first", q: Query{Newest: true}, want: []string{"salad", "pasta", "bread"}},
		{name: "nothing matches", q: Query{Search: "soup"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.q.Apply(items)))
		})
	}
	assert.Equal(t, "pasta", items[0].ID, "input must not be reordered")
}

func TestQueryApply_UnicodeForms(t *testing.T) {
	items := []models.Item{
		{ID: "tart", Title: "Crème Brûlée Tart", Category: models.CategoryBaked},
	}

	// Decomposed query (e + combining grave) matches the precomposed title.
	got := Query{Search: "crème"}.Apply(items)
	assert.Equal(t, []string{"tart"}, ids(got))
}
