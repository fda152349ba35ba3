package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/store"
	"github.com/pairingbuds/buds/pkg/slogx"
)

// ErrNoMatch means the sender has no pen-pal match to write to.
var ErrNoMatch = errors.New("no_match")

type LetterService struct {
	Store store.Store
}

// Send writes a letter to the sender's matched partner.
func (s *LetterService) Send(ctx context.Context, senderID int, content string) (domain.Letter, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Letter{}, fmt.Errorf("%w: letter content is required", ErrValidation)
	}

	match, err := s.Store.Matches().GetMatchForUser(ctx, senderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Letter{}, ErrNoMatch
		}
		return domain.Letter{}, err
	}

	letter := domain.Letter{
		MatchID:    match.ID,
		SenderID:   senderID,
		ReceiverID: match.Partner(senderID),
		Content:    content,
		Status:     domain.LetterSent,
	}

	id, err := s.Store.Letters().CreateLetter(ctx, letter)
	if err != nil {
		return domain.Letter{}, err
	}
	letter.ID = id

	slogx.FromContext(ctx).Info("letter sent",
		slog.Int("letter_id", id),
		slog.Int("match_id", match.ID),
	)
	return letter, nil
}

// Get returns one letter visible to the user. Reading a received letter
// marks it READ.
func (s *LetterService) Get(ctx context.Context, userID, letterID int) (domain.Letter, error) {
	letter, err := s.Store.Letters().GetLetterByID(ctx, letterID)
	if err != nil {
		return domain.Letter{}, err
	}

	switch userID {
	case letter.ReceiverID:
		if letter.Status == domain.LetterSent {
			if err := s.Store.Letters().MarkLetterRead(ctx, letterID); err != nil {
				return domain.Letter{}, err
			}
			letter.Status = domain.LetterRead
		}
	case letter.SenderID:
		// senders may re-read their own letters without status changes
	default:
		return domain.Letter{}, ErrForbidden
	}

	return letter, nil
}

func (s *LetterService) ListReceived(ctx context.Context, userID int) ([]domain.Letter, error) {
	return s.Store.Letters().ListReceived(ctx, userID)
}

func (s *LetterService) ListSent(ctx context.Context, userID int) ([]domain.Letter, error) {
	return s.Store.Letters().ListSent(ctx, userID)
}

func (s *LetterService) ListFavorites(ctx context.Context, userID int) ([]domain.Letter, error) {
	return s.Store.Letters().ListFavorites(ctx, userID)
}

// Favorite pins a letter for the user. Idempotent.
func (s *LetterService) Favorite(ctx context.Context, userID, letterID int) error {
	if err := s.requireParticipant(ctx, userID, letterID); err != nil {
		return err
	}
	return s.Store.Letters().FavoriteLetter(ctx, userID, letterID)
}

func (s *LetterService) Unfavorite(ctx context.Context, userID, letterID int) error {
	if err := s.requireParticipant(ctx, userID, letterID); err != nil {
		return err
	}
	return s.Store.Letters().UnfavoriteLetter(ctx, userID, letterID)
}

func (s *LetterService) requireParticipant(ctx context.Context, userID, letterID int) error {
	letter, err := s.Store.Letters().GetLetterByID(ctx, letterID)
	if err != nil {
		return err
	}
	if userID != letter.SenderID && userID != letter.ReceiverID {
		return ErrForbidden
	}
	return nil
}
