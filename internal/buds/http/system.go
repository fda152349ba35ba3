package http

import (
	"net/http"
	"time"

	"github.com/pairingbuds/buds/pkg/httpx"
)

// handleLivez reports process liveness. Always 200 while the process runs.
func (r *Router) handleLivez(w http.ResponseWriter, req *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(r.startTime).Round(time.Second).String(),
	})
}

// handleReadyz reports whether the service can do useful work: both the
// database and the session store must answer.
func (r *Router) handleReadyz(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	checks := map[string]string{
		"database":      "ok",
		"session_store": "ok",
	}
	healthy := true

	if err := r.store.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := r.sessions.Ping(ctx); err != nil {
		checks["session_store"] = err.Error()
		healthy = false
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}

	httpx.WriteJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
