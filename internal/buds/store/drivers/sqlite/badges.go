package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

type badgesRepo struct {
	db dbtx
}

func (r *badgesRepo) AwardBadge(ctx context.Context, b domain.Badge) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (user_id, awarded_on, kind, created_at)
		VALUES (?, ?, ?, ?)`,
		b.UserID, formatDate(b.AwardedOn), b.Kind, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return lastInsertID(res)
}

func (r *badgesRepo) ListBadgesInMonth(ctx context.Context, userID, year, month int) ([]domain.Badge, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT badge_id, user_id, awarded_on, kind, created_at
		FROM badges
		WHERE user_id = ? AND awarded_on LIKE ?
		ORDER BY awarded_on, badge_id`,
		userID, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Badge
	for rows.Next() {
		var b domain.Badge
		var awarded string
		if err := rows.Scan(&b.ID, &b.UserID, &awarded, &b.Kind, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.AwardedOn = parseDate(awarded)
		out = append(out, b)
	}
	return out, rows.Err()
}
