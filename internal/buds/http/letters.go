package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

type letterResponse struct {
	ID         int    `json:"id"`
	MatchID    int    `json:"match_id"`
	SenderID   int    `json:"sender_id"`
	ReceiverID int    `json:"receiver_id"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Favorite   bool   `json:"favorite"`
	CreatedAt  string `json:"created_at,omitempty"`
}

func toLetterResponse(l domain.Letter) letterResponse {
	resp := letterResponse{
		ID:         l.ID,
		MatchID:    l.MatchID,
		SenderID:   l.SenderID,
		ReceiverID: l.ReceiverID,
		Content:    l.Content,
		Status:     l.Status,
		Favorite:   l.Favorite,
	}
	if !l.CreatedAt.IsZero() {
		resp.CreatedAt = l.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toLetterResponses(letters []domain.Letter) []letterResponse {
	resp := make([]letterResponse, 0, len(letters))
	for _, l := range letters {
		resp = append(resp, toLetterResponse(l))
	}
	return resp
}

// LettersHandler serves the letter exchange routes.
type LettersHandler struct {
	LetterService *service.LetterService
}

type sendLetterRequest struct {
	Content string `json:"content"`
}

func (h *LettersHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req sendLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	letter, err := h.LetterService.Send(r.Context(), id.UserID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toLetterResponse(letter))
}

func (h *LettersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	letterID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	letter, err := h.LetterService.Get(r.Context(), id.UserID, letterID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toLetterResponse(letter))
}

func (h *LettersHandler) HandleListReceived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.LetterService.ListReceived)
}

func (h *LettersHandler) HandleListSent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.LetterService.ListSent)
}

func (h *LettersHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.LetterService.ListFavorites)
}

func (h *LettersHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, userID int) ([]domain.Letter, error),
) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	letters, err := fn(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toLetterResponses(letters))
}

func (h *LettersHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, h.LetterService.Favorite)
}

func (h *LettersHandler) HandleUnfavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, h.LetterService.Unfavorite)
}

func (h *LettersHandler) setFavorite(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, userID, letterID int) error,
) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	letterID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := fn(r.Context(), id.UserID, letterID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]int{"id": letterID})
}
