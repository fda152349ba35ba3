package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

// CalendarsHandler serves the monthly calendar view and badge awards.
type CalendarsHandler struct {
	CalendarService *service.CalendarService
}

func (h *CalendarsHandler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	year, err := pathID(r, "year")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	month, err := pathID(r, "month")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	summary, err := h.CalendarService.MonthSummary(r.Context(), id.UserID, year, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, summary)
}

type awardBadgeRequest struct {
	UserID    int    `json:"user_id"`
	AwardedOn string `json:"awarded_on"`
	Kind      string `json:"kind"`
}

func (h *CalendarsHandler) HandleAwardBadge(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	var req awardBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	awardedOn, err := time.Parse(dateLayout, req.AwardedOn)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "awarded_on must be yyyy-mm-dd")
		return
	}

	badge, err := h.CalendarService.AwardBadge(r.Context(), domain.Badge{
		UserID:    req.UserID,
		AwardedOn: awardedOn,
		Kind:      req.Kind,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":         badge.ID,
		"user_id":    badge.UserID,
		"awarded_on": badge.AwardedOn.Format(dateLayout),
		"kind":       badge.Kind,
	})
}
