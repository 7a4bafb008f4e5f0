package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jredh-dev/foodshare/config"
	"github.com/jredh-dev/foodshare/internal/actions"
	"github.com/jredh-dev/foodshare/internal/analytics"
	"github.com/jredh-dev/foodshare/internal/auth"
	"github.com/jredh-dev/foodshare/internal/listings"
	"github.com/jredh-dev/foodshare/internal/notifications"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	cfg     *config.Config
	auth    *auth.Service
	items   *listings.Service
	notes   *notifications.Log
	stats   *analytics.Service
	actions *actions.Registry
	now     func() time.Time
}

// New creates a new handler.
func New(cfg *config.Config, authService *auth.Service, items *listings.Service, notes *notifications.Log, stats *analytics.Service) *Handler {
	return &Handler{
		cfg:     cfg,
		auth:    authService,
		items:   items,
		notes:   notes,
		stats:   stats,
		actions: actions.New(),
		now:     time.Now,
	}
}

// AuthService returns the auth service instance.
func (h *Handler) AuthService() *auth.Service {
	return h.auth
}

// Mount registers the JSON API on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionMiddleware(h.auth))

		// Public.
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/actions", h.SearchActions)

		// Session required.
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Get("/me", h.Me)

			r.Get("/items", h.ListItems)
			r.Post("/items", h.CreateItem)
			r.Get("/items/{id}", h.GetItem)
			r.Post("/items/{id}/reserve", h.ReserveItem)
			r.Post("/items/{id}/collect", h.CollectItem)
			r.Put("/items/{id}/status", h.SetItemStatus)

			r.Get("/dashboard", h.Dashboard)
			r.Get("/analytics", h.Analytics)

			r.Get("/notifications", h.ListNotifications)
			r.Post("/notifications/read-all", h.MarkAllNotificationsRead)
			r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		})
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// SearchActions returns actions matching the query parameter "q".
// Results are filtered by session state: login only when logged out,
// restaurant and charity actions only for that role.
func (h *Handler) SearchActions(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	results := h.actions.Search(r.URL.Query().Get("q"), actions.ContextFor(user))
	if results == nil {
		results = []actions.Action{}
	}
	jsonResponse(w, http.StatusOK, results)
}

// --- helpers ---

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *listings.ValidationError
	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, listings.ErrUnauthenticated), errors.Is(err, notifications.ErrUnauthenticated):
		jsonError(w, "Login required", http.StatusUnauthorized)
	case errors.Is(err, listings.ErrForbidden):
		jsonError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, listings.ErrNotFound):
		jsonError(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, listings.ErrConflict):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("API: %s %s: %v", r.Method, r.URL.Path, err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}
