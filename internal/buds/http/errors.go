package http

import (
	"errors"
	"net/http"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/internal/buds/session"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/pkg/httpx"
	"github.com/pairingbuds/buds/pkg/slogx"
)

// writeServiceError maps service failures onto HTTP statuses. Every
// authentication rejection is a 401 with only the coarse taxonomy label;
// which check failed is never elaborated.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "")
	case errors.Is(err, service.ErrSessionExpired):
		httpx.WriteError(w, http.StatusUnauthorized, "session_expired", "")
	case errors.Is(err, service.ErrSessionInvalidated):
		httpx.WriteError(w, http.StatusUnauthorized, "session_invalidated", "")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "")
	case errors.Is(err, service.ErrNoMatch):
		httpx.WriteError(w, http.StatusConflict, "no_match", "no pen-pal match to write to")
	case errors.Is(err, service.ErrAlreadyAnswered):
		httpx.WriteError(w, http.StatusConflict, "already_answered", "")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "already_exists", "")
	case errors.Is(err, session.ErrUnavailable):
		// Fail closed: never admit when the session store cannot be read.
		slogx.FromContext(r.Context()).Error("session store unavailable", "err", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "store_unavailable", "")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
	}
}

// identity pulls the gateway-resolved caller or rejects with 401. Handlers
// behind the gateway should never actually hit the failure branch.
func identity(w http.ResponseWriter, r *http.Request) (httpx.Identity, bool) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "")
	}
	return id, ok
}

// adminIdentity additionally requires the admin role.
func adminIdentity(w http.ResponseWriter, r *http.Request) (httpx.Identity, bool) {
	id, ok := identity(w, r)
	if !ok {
		return id, false
	}
	if id.Role != domain.RoleAdmin {
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "")
		return id, false
	}
	return id, true
}
