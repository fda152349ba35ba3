package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/store"
)

type CalendarService struct {
	Store store.Store
}

// MonthSummary builds the user's calendar for one month: which days have a
// diary entry and which badges were awarded. Days with no activity are
// omitted.
func (s *CalendarService) MonthSummary(ctx context.Context, userID, year, month int) (domain.MonthSummary, error) {
	if month < 1 || month > 12 || year < 1 {
		return domain.MonthSummary{}, fmt.Errorf("%w: invalid year/month", ErrValidation)
	}

	diaryDays, err := s.Store.Diaries().ListDiaryDaysInMonth(ctx, userID, year, month)
	if err != nil {
		return domain.MonthSummary{}, err
	}
	badges, err := s.Store.Badges().ListBadgesInMonth(ctx, userID, year, month)
	if err != nil {
		return domain.MonthSummary{}, err
	}

	byDay := make(map[int]*domain.CalendarDay)
	day := func(d int) *domain.CalendarDay {
		if c, ok := byDay[d]; ok {
			return c
		}
		c := &domain.CalendarDay{Day: d}
		byDay[d] = c
		return c
	}

	for _, d := range diaryDays {
		day(d).HasDiary = true
	}
	for _, b := range badges {
		c := day(b.AwardedOn.Day())
		c.Badges = append(c.Badges, b.Kind)
	}

	summary := domain.MonthSummary{Year: year, Month: month}
	for _, c := range byDay {
		summary.Days = append(summary.Days, *c)
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Day < summary.Days[j].Day
	})
	return summary, nil
}

// AwardBadge pins an activity badge to a user's calendar day. Admin use.
func (s *CalendarService) AwardBadge(ctx context.Context, b domain.Badge) (domain.Badge, error) {
	b.Kind = strings.TrimSpace(b.Kind)
	if b.Kind == "" {
		return domain.Badge{}, fmt.Errorf("%w: badge kind is required", ErrValidation)
	}
	if b.AwardedOn.IsZero() {
		return domain.Badge{}, fmt.Errorf("%w: awarded date is required", ErrValidation)
	}

	if _, err := s.Store.Users().GetUserByID(ctx, b.UserID); err != nil {
		return domain.Badge{}, err
	}

	id, err := s.Store.Badges().AwardBadge(ctx, b)
	if err != nil {
		return domain.Badge{}, err
	}
	b.ID = id
	return b, nil
}
