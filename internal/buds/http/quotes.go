package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

type quoteResponse struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// QuotesHandler serves the daily quote routes.
type QuotesHandler struct {
	QuoteService *service.QuoteService
}

func (h *QuotesHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	quote, err := h.QuoteService.QuoteOfDay(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, quoteResponse{
		ID:     quote.ID,
		Text:   quote.Text,
		Author: quote.Author,
	})
}

type createQuoteRequest struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

func (h *QuotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	var req createQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	quote, err := h.QuoteService.Create(r.Context(), domain.Quote{
		Text:   req.Text,
		Author: req.Author,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, quoteResponse{
		ID:     quote.ID,
		Text:   quote.Text,
		Author: quote.Author,
	})
}

func (h *QuotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	quoteID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.QuoteService.Delete(r.Context(), quoteID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
