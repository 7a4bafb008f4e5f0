package listings

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// Query narrows and orders a listing view. Zero fields match everything.
type Query struct {
	Search   string          // case-insensitive substring of title or description
	Category models.Category // exact category
	Dietary  string          // required dietary tag
	Newest   bool            // newest first instead of insertion order
}

// Apply returns the items matching q. The input slice is not modified.
func (q Query) Apply(items []models.Item) []models.Item {
	search := fold(q.Search)
	dietary := fold(q.Dietary)

	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if search != "" &&
			!strings.Contains(fold(it.Title), search) &&
			!strings.Contains(fold(it.Description), search) {
			continue
		}
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		if dietary != "" && !it.HasDietary(dietary) {
			continue
		}
		out = append(out, it)
	}

	if q.Newest {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// fold puts text into the form used for matching: NFC, trimmed, lowercased.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
