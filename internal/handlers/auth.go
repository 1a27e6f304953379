package handlers

import (
	"net/http"
	"time"

	"prepai-backend/internal/services"
)

const sessionCookieName = "prepai_session"

type AuthHandler struct {
	auth        *services.AuthService
	frontendURL string
	secure      bool
}

// secure controls the cookie flags: Secure + SameSite=None in
// production (the frontend is served from another origin), Lax in
// development.
func NewAuthHandler(auth *services.AuthService, frontendURL string, secure bool) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		frontendURL: frontendURL,
		secure:      secure,
	}
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	url, err := h.auth.LoginURL(r.Context())
	if err != nil {
		handleServiceError(w, err, false)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	cookieValue, err := h.auth.HandleCallback(r.Context(), state, code)
	if err != nil {
		handleServiceError(w, err, false)
		return
	}

	http.SetCookie(w, h.sessionCookie(cookieValue, 30*24*time.Hour))
	http.Redirect(w, r, h.frontendURL+"/", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.auth.Logout(r.Context(), c.Value); err != nil {
			writeError(w, http.StatusInternalServerError, "Logout failed", "")
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -time.Second))
	http.Redirect(w, r, h.frontendURL+"/", http.StatusFound)
}

// CurrentUser returns the session-bound user, or JSON null when there
// is no valid session. Unauthenticated is not an error here; the
// client uses it to decide which views to show.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), c.Value)
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.secure {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: sameSite,
	}
}
