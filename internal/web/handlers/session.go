package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jredh-dev/foodshare/internal/auth"
)

// Login checks credentials and issues a session token, also set as a cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		jsonError(w, "Email and password are required.", http.StatusBadRequest)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Printf("Login failed for %s", req.Email)
		jsonError(w, "Invalid email or password.", http.StatusUnauthorized)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   h.cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	jsonResponse(w, http.StatusOK, session)
}

// Logout revokes the current session token and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if tok := sessionToken(r); tok != "" {
		if err := h.auth.Logout(r.Context(), tok); err != nil {
			log.Printf("Logout error: %v", err)
		}
	}
	clearSessionCookie(w, h.cfg.IsProduction())
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUserFromContext(r.Context())
	jsonResponse(w, http.StatusOK, user)
}
