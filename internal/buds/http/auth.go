package http

import (
	"encoding/json"
	"net/http"

	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

// LoginHandler serves POST /login.
type LoginHandler struct {
	AuthService *service.AuthService
	Secure      bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetTokenCookie(w, httpx.CookieAccessToken, pair.AccessToken, pair.AccessTTL, h.Secure)
	httpx.SetTokenCookie(w, httpx.CookieRefreshToken, pair.RefreshToken, pair.RefreshTTL, h.Secure)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// RefreshHandler serves POST /refresh. Public route: it authenticates by
// the refresh cookie alone.
type RefreshHandler struct {
	AuthService *service.AuthService
	Secure      bool
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	refresh := httpx.CookieValue(r, httpx.CookieRefreshToken)

	res, err := h.AuthService.Refresh(r.Context(), refresh)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetTokenCookie(w, httpx.CookieAccessToken, res.Rotated.AccessToken, res.Rotated.AccessTTL, h.Secure)
	httpx.SetTokenCookie(w, httpx.CookieRefreshToken, res.Rotated.RefreshToken, res.Rotated.RefreshTTL, h.Secure)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// LogoutHandler serves POST /logout. Runs behind the gateway so the session
// being revoked is the caller's own.
type LogoutHandler struct {
	AuthService *service.AuthService
	Secure      bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(r.Context(), id.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.ClearTokenCookies(w, h.Secure)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
