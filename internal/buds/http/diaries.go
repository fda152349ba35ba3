package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

type diaryResponse struct {
	ID        int    `json:"id"`
	EntryDate string `json:"entry_date"`
	Content   string `json:"content"`
	Emotion   string `json:"emotion,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func toDiaryResponse(d domain.Diary) diaryResponse {
	resp := diaryResponse{
		ID:        d.ID,
		EntryDate: d.EntryDate.Format(dateLayout),
		Content:   d.Content,
		Emotion:   d.Emotion,
	}
	if !d.CreatedAt.IsZero() {
		resp.CreatedAt = d.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !d.UpdatedAt.IsZero() {
		resp.UpdatedAt = d.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// DiariesHandler serves the diary routes.
type DiariesHandler struct {
	DiaryService *service.DiaryService
}

type diaryRequest struct {
	EntryDate string `json:"entry_date"`
	Content   string `json:"content"`
	Emotion   string `json:"emotion,omitempty"`
}

func (h *DiariesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req diaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "entry_date must be yyyy-mm-dd")
		return
	}

	diary, err := h.DiaryService.Create(r.Context(), id.UserID, service.DiaryParams{
		EntryDate: entryDate,
		Content:   req.Content,
		Emotion:   req.Emotion,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDiaryResponse(diary))
}

func (h *DiariesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	diaries, err := h.DiaryService.List(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]diaryResponse, 0, len(diaries))
	for _, d := range diaries {
		resp = append(resp, toDiaryResponse(d))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *DiariesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	diaryID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	diary, err := h.DiaryService.Get(r.Context(), id.UserID, diaryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDiaryResponse(diary))
}

func (h *DiariesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	diaryID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req diaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	diary, err := h.DiaryService.Update(r.Context(), id.UserID, diaryID, service.DiaryParams{
		Content: req.Content,
		Emotion: req.Emotion,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDiaryResponse(diary))
}

func (h *DiariesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	diaryID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.DiaryService.Delete(r.Context(), id.UserID, diaryID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
