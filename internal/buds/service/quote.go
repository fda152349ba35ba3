package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
	"github.com/pairingbuds/buds/internal/buds/store"
)

type QuoteService struct {
	Store store.Store
}

// QuoteOfDay returns the day's quote. The pick is deterministic per UTC
// day, cycling through the pool in id order, so every caller sees the same
// quote all day. Returns store.ErrNotFound when the pool is empty.
func (s *QuoteService) QuoteOfDay(ctx context.Context, now time.Time) (domain.Quote, error) {
	count, err := s.Store.Quotes().CountQuotes(ctx)
	if err != nil {
		return domain.Quote{}, err
	}
	if count == 0 {
		return domain.Quote{}, store.ErrNotFound
	}

	dayOrdinal := int(now.UTC().Unix() / 86400)
	return s.Store.Quotes().GetQuoteByOffset(ctx, dayOrdinal%count)
}

// Create adds a quote to the pool. Admin use.
func (s *QuoteService) Create(ctx context.Context, q domain.Quote) (domain.Quote, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return domain.Quote{}, fmt.Errorf("%w: quote text is required", ErrValidation)
	}

	id, err := s.Store.Quotes().CreateQuote(ctx, q)
	if err != nil {
		return domain.Quote{}, err
	}
	q.ID = id
	return q, nil
}

// Delete removes a quote from the pool. Admin use.
func (s *QuoteService) Delete(ctx context.Context, id int) error {
	return s.Store.Quotes().DeleteQuote(ctx, id)
}
