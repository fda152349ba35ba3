package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/service"
	"github.com/pairingbuds/buds/pkg/httpx"
)

type answerResponse struct {
	ID        int    `json:"id"`
	AdminID   int    `json:"admin_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

type questionResponse struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at,omitempty"`
	Answer    *answerResponse `json:"answer,omitempty"`
}

func toQuestionResponse(q domain.Question) questionResponse {
	resp := questionResponse{
		ID:      q.ID,
		UserID:  q.UserID,
		Title:   q.Title,
		Content: q.Content,
		Status:  q.Status,
	}
	if !q.CreatedAt.IsZero() {
		resp.CreatedAt = q.CreatedAt.UTC().Format(time.RFC3339)
	}
	if q.Answer != nil {
		resp.Answer = &answerResponse{
			ID:      q.Answer.ID,
			AdminID: q.Answer.AdminID,
			Content: q.Answer.Content,
		}
		if !q.Answer.CreatedAt.IsZero() {
			resp.Answer.CreatedAt = q.Answer.CreatedAt.UTC().Format(time.RFC3339)
		}
	}
	return resp
}

func toQuestionResponses(questions []domain.Question) []questionResponse {
	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, toQuestionResponse(q))
	}
	return resp
}

// QuestionsHandler serves the customer-support routes.
type QuestionsHandler struct {
	QuestionService *service.QuestionService
}

type createQuestionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *QuestionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	question, err := h.QuestionService.Create(r.Context(), id.UserID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toQuestionResponse(question))
}

func (h *QuestionsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	questions, err := h.QuestionService.ListMine(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toQuestionResponses(questions))
}

func (h *QuestionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	questionID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	question, err := h.QuestionService.Get(r.Context(), id.UserID, id.Role, questionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toQuestionResponse(question))
}

func (h *QuestionsHandler) HandleListOpen(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	questions, err := h.QuestionService.ListOpen(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toQuestionResponses(questions))
}

type answerRequest struct {
	Content string `json:"content"`
}

func (h *QuestionsHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := adminIdentity(w, r)
	if !ok {
		return
	}

	questionID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	question, err := h.QuestionService.Answer(r.Context(), id.UserID, questionID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toQuestionResponse(question))
}
