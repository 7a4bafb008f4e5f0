package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jredh-dev/foodshare/internal/listings"
	"github.com/jredh-dev/foodshare/pkg/models"
)

// itemView is an item plus its expiry countdown label.
type itemView struct {
	models.Item
	ExpiresIn string `json:"expires_in"`
}

func (h *Handler) view(item models.Item) itemView {
	return itemView{Item: item, ExpiresIn: listings.TimeUntilExpiry(item.ExpiresAt, h.now())}
}

func (h *Handler) views(items []models.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, h.view(it))
	}
	return out
}

// ListItems returns the caller's item view, narrowed by q, category and
// dietary; order=newest sorts newest first.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	items, err := h.items.List(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := r.URL.Query()
	q := listings.Query{
		Search:   params.Get("q"),
		Category: models.Category(strings.ToLower(params.Get("category"))),
		Dietary:  params.Get("dietary"),
		Newest:   params.Get("order") == "newest",
	}
	jsonResponse(w, http.StatusOK, h.views(q.Apply(items)))
}

// CreateItem lists a new surplus item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, _ := GetUserFromContext(r.Context())
	item, err := h.items.Create(r.Context(), user, draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, h.view(*item))
}

// GetItem returns a single item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	item, err := h.items.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.view(*item))
}

// ReserveItem reserves an available item for the calling charity.
func (h *Handler) ReserveItem(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	item, err := h.items.Reserve(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.view(*item))
}

// CollectItem confirms pickup of a reserved item.
func (h *Handler) CollectItem(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	item, err := h.items.Collect(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.view(*item))
}

// SetItemStatus applies a restaurant status change.
func (h *Handler) SetItemStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.ItemStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, _ := GetUserFromContext(r.Context())
	item, err := h.items.SetStatus(r.Context(), user, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.view(*item))
}
