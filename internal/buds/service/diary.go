package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/store"
)

type DiaryService struct {
	Store store.Store
}

type DiaryParams struct {
	EntryDate time.Time
	Content   string
	Emotion   string
}

func (p *DiaryParams) validate() error {
	p.Content = strings.TrimSpace(p.Content)
	if p.Content == "" {
		return fmt.Errorf("%w: diary content is required", ErrValidation)
	}
	if p.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date is required", ErrValidation)
	}
	return nil
}

// Create records a diary entry for the given date. Returns
// store.ErrAlreadyExists when the user already wrote one that day.
func (s *DiaryService) Create(ctx context.Context, userID int, p DiaryParams) (domain.Diary, error) {
	if err := p.validate(); err != nil {
		return domain.Diary{}, err
	}

	diary := domain.Diary{
		UserID:    userID,
		EntryDate: p.EntryDate,
		Content:   p.Content,
		Emotion:   p.Emotion,
	}

	id, err := s.Store.Diaries().CreateDiary(ctx, diary)
	if err != nil {
		return domain.Diary{}, err
	}
	diary.ID = id
	return diary, nil
}

// Get returns a diary entry owned by the user.
func (s *DiaryService) Get(ctx context.Context, userID, diaryID int) (domain.Diary, error) {
	diary, err := s.Store.Diaries().GetDiaryByID(ctx, diaryID)
	if err != nil {
		return domain.Diary{}, err
	}
	if diary.UserID != userID {
		return domain.Diary{}, ErrForbidden
	}
	return diary, nil
}

func (s *DiaryService) List(ctx context.Context, userID int) ([]domain.Diary, error) {
	return s.Store.Diaries().ListDiariesByUser(ctx, userID)
}

// Update replaces an entry's content and emotion. The entry date is fixed.
func (s *DiaryService) Update(ctx context.Context, userID, diaryID int, p DiaryParams) (domain.Diary, error) {
	diary, err := s.Get(ctx, userID, diaryID)
	if err != nil {
		return domain.Diary{}, err
	}

	p.EntryDate = diary.EntryDate
	if err := p.validate(); err != nil {
		return domain.Diary{}, err
	}

	diary.Content = p.Content
	diary.Emotion = p.Emotion
	if err := s.Store.Diaries().UpdateDiary(ctx, diary); err != nil {
		return domain.Diary{}, err
	}
	return diary, nil
}

func (s *DiaryService) Delete(ctx context.Context, userID, diaryID int) error {
	if _, err := s.Get(ctx, userID, diaryID); err != nil {
		return err
	}
	return s.Store.Diaries().DeleteDiary(ctx, diaryID)
}
