package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/pkg/slogx"
)

// ErrAlreadyAnswered means the question has an answer and cannot take
// another.
var ErrAlreadyAnswered = errors.New("already_answered")

type QuestionService struct {
	Store store.Store
}

// Create opens a customer-support question for the user.
func (s *QuestionService) Create(ctx context.Context, userID int, title, content string) (domain.Question, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Question{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	q := domain.Question{
		UserID:  userID,
		Title:   title,
		Content: content,
		Status:  domain.QuestionOpen,
	}

	id, err := s.Store.Questions().CreateQuestion(ctx, q)
	if err != nil {
		return domain.Question{}, err
	}
	q.ID = id
	return q, nil
}

// Get returns one question with its answer. Visible to the owner and to
// admins.
func (s *QuestionService) Get(ctx context.Context, userID int, role string, questionID int) (domain.Question, error) {
	q, err := s.Store.Questions().GetQuestionByID(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	if q.UserID != userID && role != domain.RoleAdmin {
		return domain.Question{}, ErrForbidden
	}
	return q, nil
}

func (s *QuestionService) ListMine(ctx context.Context, userID int) ([]domain.Question, error) {
	return s.Store.Questions().ListQuestionsByUser(ctx, userID)
}

// ListOpen returns unanswered questions, oldest first. Admin use.
func (s *QuestionService) ListOpen(ctx context.Context) ([]domain.Question, error) {
	return s.Store.Questions().ListOpenQuestions(ctx)
}

// Answer records the admin's reply and closes the question. The answer
// insert and the status flip commit together.
func (s *QuestionService) Answer(ctx context.Context, adminID, questionID int, content string) (domain.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Question{}, fmt.Errorf("%w: answer content is required", ErrValidation)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		q, err := tx.Questions().GetQuestionByID(ctx, questionID)
		if err != nil {
			return err
		}
		if q.Status != domain.QuestionOpen {
			return ErrAlreadyAnswered
		}

		if _, err := tx.Questions().CreateAnswer(ctx, domain.Answer{
			QuestionID: questionID,
			AdminID:    adminID,
			Content:    content,
		}); err != nil {
			return err
		}
		return tx.Questions().MarkQuestionAnswered(ctx, questionID, time.Now().UTC())
	})
	if err != nil {
		return domain.Question{}, err
	}

	slogx.FromContext(ctx).Info("question answered",
		slog.Int("question_id", questionID),
		slog.Int("admin_id", adminID),
	)
	return s.Store.Questions().GetQuestionByID(ctx, questionID)
}
