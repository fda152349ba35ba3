package sqlite

import (
	"context"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

type lettersRepo struct {
	db dbtx
}

func (r *lettersRepo) CreateLetter(ctx context.Context, l domain.Letter) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO letters (match_id, sender_id, receiver_id, content, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.MatchID, l.SenderID, l.ReceiverID, l.Content, domain.LetterSent, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return lastInsertID(res)
}

func (r *lettersRepo) GetLetterByID(ctx context.Context, id int) (domain.Letter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT letter_id, match_id, sender_id, receiver_id, content, status, created_at
		FROM letters WHERE letter_id = ?`, id)

	var l domain.Letter
	err := row.Scan(&l.ID, &l.MatchID, &l.SenderID, &l.ReceiverID, &l.Content, &l.Status, &l.CreatedAt)
	if err != nil {
		return domain.Letter{}, mapNotFound(err)
	}
	return l, nil
}

func (r *lettersRepo) ListReceived(ctx context.Context, userID int) ([]domain.Letter, error) {
	return r.list(ctx, userID, `l.receiver_id = ?`)
}

func (r *lettersRepo) ListSent(ctx context.Context, userID int) ([]domain.Letter, error) {
	return r.list(ctx, userID, `l.sender_id = ?`)
}

func (r *lettersRepo) ListFavorites(ctx context.Context, userID int) ([]domain.Letter, error) {
	return r.list(ctx, userID, `f.letter_id IS NOT NULL AND (l.receiver_id = ? OR l.sender_id = ?)`, userID)
}

// list runs the shared letter query with the viewer's favorite flag joined
// in. where may reference l (letters) and f (the viewer's favorites).
func (r *lettersRepo) list(ctx context.Context, userID int, where string, extraArgs ...any) ([]domain.Letter, error) {
	args := append([]any{userID, userID}, extraArgs...)
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.letter_id, l.match_id, l.sender_id, l.receiver_id, l.content, l.status,
		       f.letter_id IS NOT NULL, l.created_at
		FROM letters l
		LEFT JOIN letter_favorites f ON f.letter_id = l.letter_id AND f.user_id = ?
		WHERE `+where+`
		ORDER BY l.created_at DESC, l.letter_id DESC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Letter
	for rows.Next() {
		var l domain.Letter
		err := rows.Scan(&l.ID, &l.MatchID, &l.SenderID, &l.ReceiverID, &l.Content, &l.Status, &l.Favorite, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *lettersRepo) MarkLetterRead(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE letters SET status = ? WHERE letter_id = ?`, domain.LetterRead, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *lettersRepo) FavoriteLetter(ctx context.Context, userID, letterID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO letter_favorites (user_id, letter_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, letter_id) DO NOTHING`,
		userID, letterID, time.Now().UTC())
	return err
}

func (r *lettersRepo) UnfavoriteLetter(ctx context.Context, userID, letterID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM letter_favorites WHERE user_id = ? AND letter_id = ?`,
		userID, letterID)
	return err
}
