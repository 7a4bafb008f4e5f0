package actions

import (
	"strings"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// ActionType categorizes what an action does when executed.
type ActionType string

const (
	TypeNavigation ActionType = "navigation"
	TypeFunction   ActionType = "function"
)

// Visibility controls when an action appears based on session state.
type Visibility int

const (
	VisibleAlways    Visibility = iota // Everyone sees it
	VisibleLoggedOut                   // Only when not logged in
	VisibleLoggedIn                    // Any logged-in user
	VisibleSupplier                    // Restaurants only
	VisibleRecipient                   // Charities only
)

// Action represents a single executable action available in the command bar.
type Action struct {
	ID          string     `json:"id"`
	Type        ActionType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	// For navigation actions: the client route to navigate to.
	// For function actions: a client-side function identifier.
	Target      string     `json:"target"`
	// Endpoint is the API route backing the action ("METHOD /path"),
	// empty for static client pages.
	Endpoint    string     `json:"endpoint,omitempty"`
	Keywords    []string   `json:"keywords"`
	Visibility  Visibility `json:"-"` // server-side filtering only
}

// SearchContext provides session state for filtering actions.
type SearchContext struct {
	LoggedIn bool
	Role     models.Role
}

// ContextFor builds the search context for user, which may be nil.
func ContextFor(user *models.User) SearchContext {
	if user == nil {
		return SearchContext{}
	}
	return SearchContext{LoggedIn: true, Role: user.Role}
}

// Registry holds all available actions and supports filtered search.
type Registry struct {
	actions []Action
}

// New creates a Registry pre-populated with the default dashboard actions.
func New() *Registry {
	return &Registry{
		actions: defaultActions(),
	}
}

// Search returns actions matching the query that are visible given the context.
// An empty query returns all visible actions. Matching is case-insensitive substring.
func (r *Registry) Search(query string, ctx SearchContext) []Action {
	q := strings.ToLower(strings.TrimSpace(query))
	var results []Action

	for _, a := range r.actions {
		if !isVisible(a, ctx) {
			continue
		}
		if q == "" || matchesQuery(a, q) {
			results = append(results, a)
		}
	}
	return results
}

func isVisible(a Action, ctx SearchContext) bool {
	switch a.Visibility {
	case VisibleAlways:
		return true
	case VisibleLoggedOut:
		return !ctx.LoggedIn
	case VisibleLoggedIn:
		return ctx.LoggedIn
	case VisibleSupplier:
		return ctx.LoggedIn && ctx.Role == models.RoleRestaurant
	case VisibleRecipient:
		return ctx.LoggedIn && ctx.Role == models.RoleCharity
	default:
		return true
	}
}

func matchesQuery(a Action, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Description), q) {
		return true
	}
	for _, kw := range a.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

// defaultActions returns the built-in set of dashboard actions.
func defaultActions() []Action {
	return []Action{
		// Public navigation
		{
			ID:          "nav-about",
			Type:        TypeNavigation,
			Title:       "About FoodShare",
			Description: "How surplus food gets from restaurants to charities",
			Target:      "/about",
			Keywords:    []string{"about", "help", "info", "how"},
			Visibility:  VisibleAlways,
		},

		// Auth pages
		{
			ID:          "nav-login",
			Type:        TypeNavigation,
			Title:       "Login",
			Description: "Sign in with a demo account",
			Target:      "/login",
			Endpoint:    "POST /api/login",
			Keywords:    []string{"login", "sign in", "signin", "account", "demo"},
			Visibility:  VisibleLoggedOut,
		},

		// Logged-in navigation
		{
			ID:          "nav-dashboard",
			Type:        TypeNavigation,
			Title:       "Dashboard",
			Description: "Your organization's overview",
			Target:      "/dashboard",
			Endpoint:    "GET /api/dashboard",
			Keywords:    []string{"dashboard", "home", "overview", "stats"},
			Visibility:  VisibleLoggedIn,
		},
		{
			ID:          "nav-analytics",
			Type:        TypeNavigation,
			Title:       "Analytics",
			Description: "Impact report: meals provided, value saved, CO2 avoided",
			Target:      "/analytics",
			Endpoint:    "GET /api/analytics",
			Keywords:    []string{"analytics", "impact", "report", "trends", "co2", "meals"},
			Visibility:  VisibleLoggedIn,
		},
		{
			ID:          "nav-notifications",
			Type:        TypeNavigation,
			Title:       "Notifications",
			Description: "Reservations, pickups and expiry alerts",
			Target:      "/notifications",
			Endpoint:    "GET /api/notifications",
			Keywords:    []string{"notifications", "alerts", "inbox", "unread"},
			Visibility:  VisibleLoggedIn,
		},

		// Restaurant actions
		{
			ID:          "nav-my-listings",
			Type:        TypeNavigation,
			Title:       "My Listings",
			Description: "Surplus items your restaurant has listed",
			Target:      "/items",
			Endpoint:    "GET /api/items",
			Keywords:    []string{"listings", "items", "surplus", "inventory"},
			Visibility:  VisibleSupplier,
		},
		{
			ID:          "fn-add-item",
			Type:        TypeFunction,
			Title:       "Add Surplus Food",
			Description: "List a new surplus item for pickup",
			Target:      "add-item",
			Endpoint:    "POST /api/items",
			Keywords:    []string{"add", "new", "list", "create", "surplus", "donate"},
			Visibility:  VisibleSupplier,
		},

		// Charity actions
		{
			ID:          "nav-browse",
			Type:        TypeNavigation,
			Title:       "Browse Food",
			Description: "Available surplus food from local restaurants",
			Target:      "/items",
			Endpoint:    "GET /api/items",
			Keywords:    []string{"browse", "available", "food", "search", "reserve", "claim"},
			Visibility:  VisibleRecipient,
		},

		// Function actions
		{
			ID:          "fn-mark-all-read",
			Type:        TypeFunction,
			Title:       "Mark All Read",
			Description: "Mark every notification as read",
			Target:      "mark-all-read",
			Endpoint:    "POST /api/notifications/read-all",
			Keywords:    []string{"mark", "read", "clear", "notifications"},
			Visibility:  VisibleLoggedIn,
		},
		{
			ID:          "fn-logout",
			Type:        TypeFunction,
			Title:       "Logout",
			Description: "Sign out of your account",
			Target:      "logout",
			Endpoint:    "POST /api/logout",
			Keywords:    []string{"logout", "log out", "sign out", "signout", "exit"},
			Visibility:  VisibleLoggedIn,
		},
	}
}
