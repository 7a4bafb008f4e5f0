package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jredh-dev/foodshare/pkg/models"
)

// Dashboard returns the role-specific headline stats.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	d, err := h.stats.Dashboard(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Analytics returns the impact report.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.stats.Report(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, report)
}

type notificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// ListNotifications returns the caller's notifications and unread count.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	h.writeNotifications(w, r)
}

// MarkNotificationRead marks one notification read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	if err := h.notes.MarkRead(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNotifications(w, r)
}

// MarkAllNotificationsRead marks all of the caller's notifications read.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	if err := h.notes.MarkAllRead(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeNotifications(w, r)
}

func (h *Handler) writeNotifications(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	ns, err := h.notes.List(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	unread, err := h.notes.UnreadCount(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if ns == nil {
		ns = []models.Notification{}
	}
	jsonResponse(w, http.StatusOK, notificationsResponse{Notifications: ns, UnreadCount: unread})
}
