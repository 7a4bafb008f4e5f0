package actions

import (
	"strings"
	"testing"

	"github.com/jredh-dev/foodshare/pkg/models"
)

var (
	restaurantCtx = SearchContext{LoggedIn: true, Role: models.RoleRestaurant}
	charityCtx    = SearchContext{LoggedIn: true, Role: models.RoleCharity}
)

func TestNew_ReturnsNonEmptyRegistry(t *testing.T) {
	reg := New()
	results := reg.Search("", SearchContext{})
	if len(results) == 0 {
		t.Fatal("expected default actions, got none")
	}
}

func TestContextFor(t *testing.T) {
	if got := ContextFor(nil); got.LoggedIn {
		t.Errorf("ContextFor(nil) = %+v, want logged out", got)
	}
	got := ContextFor(&models.User{ID: "1", Role: models.RoleCharity})
	if !got.LoggedIn || got.Role != models.RoleCharity {
		t.Errorf("ContextFor(charity) = %+v", got)
	}
}

func TestDefaultActions_EndpointFormat(t *testing.T) {
	for _, a := range defaultActions() {
		if a.Endpoint == "" {
			if a.Target != "/about" {
				t.Errorf("action %s has no backing endpoint", a.ID)
			}
			continue
		}
		method, path, ok := strings.Cut(a.Endpoint, " ")
		if !ok || (method != "GET" && method != "POST") || !strings.HasPrefix(path, "/api/") {
			t.Errorf("action %s endpoint = %q, want \"METHOD /api/...\"", a.ID, a.Endpoint)
		}
	}
}

func TestSearch_EmptyQueryReturnsVisibleActions(t *testing.T) {
	reg := New()

	tests := []struct {
		name     string
		ctx      SearchContext
		mustHave []string
		mustNot  []string
	}{
		{
			name:     "anonymous sees public + logged-out actions",
			ctx:      SearchContext{},
			mustHave: []string{"nav-about", "nav-login"},
			mustNot:  []string{"nav-dashboard", "nav-my-listings", "nav-browse", "fn-logout"},
		},
		{
			name:     "restaurant sees supplier actions",
			ctx:      restaurantCtx,
			mustHave: []string{"nav-about", "nav-dashboard", "nav-analytics", "nav-my-listings", "fn-add-item", "fn-logout"},
			mustNot:  []string{"nav-login", "nav-browse"},
		},
		{
			name:     "charity sees recipient actions",
			ctx:      charityCtx,
			mustHave: []string{"nav-about", "nav-dashboard", "nav-notifications", "nav-browse", "fn-mark-all-read"},
			mustNot:  []string{"nav-login", "nav-my-listings", "fn-add-item"},
		},
		{
			name:    "role without session sees no role actions",
			ctx:     SearchContext{Role: models.RoleRestaurant},
			mustNot: []string{"nav-my-listings", "fn-add-item", "nav-dashboard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := reg.Search("", tt.ctx)
			ids := make(map[string]bool)
			for _, a := range results {
				ids[a.ID] = true
			}

			for _, id := range tt.mustHave {
				if !ids[id] {
					t.Errorf("expected action %q in results, but not found", id)
				}
			}
			for _, id := range tt.mustNot {
				if ids[id] {
					t.Errorf("action %q should not be in results for context %+v", id, tt.ctx)
				}
			}
		})
	}
}

func TestSearch_QueryFiltering(t *testing.T) {
	reg := New()

	tests := []struct {
		name    string
		query   string
		ctx     SearchContext
		wantIDs []string
	}{
		{
			name:    "search for login when logged out",
			query:   "login",
			ctx:     SearchContext{},
			wantIDs: []string{"nav-login"},
		},
		{
			name:    "keyword match for donate",
			query:   "donate",
			ctx:     restaurantCtx,
			wantIDs: []string{"fn-add-item"},
		},
		{
			name:    "case insensitive search",
			query:   "BROWSE",
			ctx:     charityCtx,
			wantIDs: []string{"nav-browse"},
		},
		{
			name:    "charity cannot find add item",
			query:   "donate",
			ctx:     charityCtx,
			wantIDs: []string{},
		},
		{
			name:    "restaurant cannot find browse",
			query:   "browse",
			ctx:     restaurantCtx,
			wantIDs: []string{},
		},
		{
			name:    "search for logout when logged out returns nothing",
			query:   "logout",
			ctx:     SearchContext{},
			wantIDs: []string{},
		},
		{
			name:    "impact matches analytics",
			query:   "impact",
			ctx:     charityCtx,
			wantIDs: []string{"nav-analytics"},
		},
		{
			name:    "no match returns empty",
			query:   "xyznonexistent",
			ctx:     restaurantCtx,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := reg.Search(tt.query, tt.ctx)
			ids := make(map[string]bool)
			for _, a := range results {
				ids[a.ID] = true
			}

			if len(tt.wantIDs) == 0 && len(results) != 0 {
				t.Errorf("expected no results, got %d: %v", len(results), resultIDs(results))
				return
			}
			for _, id := range tt.wantIDs {
				if !ids[id] {
					t.Errorf("expected action %q in results, got %v", id, resultIDs(results))
				}
			}
			if len(results) != len(tt.wantIDs) {
				t.Errorf("expected %d results, got %d: %v", len(tt.wantIDs), len(results), resultIDs(results))
			}
		})
	}
}

func TestSearch_FunctionActionType(t *testing.T) {
	reg := New()
	results := reg.Search("logout", restaurantCtx)
	if len(results) != 1 {
		t.Fatalf("expected 1 result for 'logout', got %d", len(results))
	}

	logout := results[0]
	if logout.Type != TypeFunction {
		t.Errorf("type = %q, want function", logout.Type)
	}
	if logout.Target != "logout" {
		t.Errorf("target = %q, want logout", logout.Target)
	}
}

func resultIDs(actions []Action) []string {
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	return ids
}
