package sqlite

import (
	"context"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

type quotesRepo struct {
	db dbtx
}

func (r *quotesRepo) CreateQuote(ctx context.Context, q domain.Quote) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO quotes (text, author, created_at) VALUES (?, ?, ?)`,
		q.Text, q.Author, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return lastInsertID(res)
}

func (r *quotesRepo) DeleteQuote(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE quote_id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *quotesRepo) CountQuotes(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n)
	return n, err
}

func (r *quotesRepo) GetQuoteByOffset(ctx context.Context, offset int) (domain.Quote, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT quote_id, text, author, created_at
		FROM quotes ORDER BY quote_id LIMIT 1 OFFSET ?`, offset)

	var q domain.Quote
	if err := row.Scan(&q.ID, &q.Text, &q.Author, &q.CreatedAt); err != nil {
		return domain.Quote{}, mapNotFound(err)
	}
	return q, nil
}
