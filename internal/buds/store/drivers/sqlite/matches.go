package sqlite

import (
	"context"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

type matchesRepo struct {
	db dbtx
}

func (r *matchesRepo) CreateMatch(ctx context.Context, user1ID, user2ID int) (int, error) {
	// Normalise the pair ordering so the UNIQUE constraint catches both
	// (a,b) and (b,a).
	if user2ID < user1ID {
		user1ID, user2ID = user2ID, user1ID
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (user1_id, user2_id, created_at) VALUES (?, ?, ?)`,
		user1ID, user2ID, time.Now().UTC())
	if err != nil {
		return 0, mapConstraint(err)
	}
	return lastInsertID(res)
}

func (r *matchesRepo) GetMatchByID(ctx context.Context, id int) (domain.Match, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT match_id, user1_id, user2_id, created_at FROM matches WHERE match_id = ?`, id)

	var m domain.Match
	if err := row.Scan(&m.ID, &m.User1ID, &m.User2ID, &m.CreatedAt); err != nil {
		return domain.Match{}, mapNotFound(err)
	}
	return m, nil
}

func (r *matchesRepo) GetMatchForUser(ctx context.Context, userID int) (domain.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, user1_id, user2_id, created_at
		FROM matches
		WHERE user1_id = ? OR user2_id = ?
		ORDER BY match_id DESC
		LIMIT 1`,
		userID, userID)

	var m domain.Match
	if err := row.Scan(&m.ID, &m.User1ID, &m.User2ID, &m.CreatedAt); err != nil {
		return domain.Match{}, mapNotFound(err)
	}
	return m, nil
}
