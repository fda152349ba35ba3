package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

type diariesRepo struct {
	db dbtx
}

func (r *diariesRepo) CreateDiary(ctx context.Context, d domain.Diary) (int, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO diaries (user_id, entry_date, content, emotion, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.UserID, formatDate(d.EntryDate), d.Content, d.Emotion, now, now)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return lastInsertID(res)
}

func (r *diariesRepo) GetDiaryByID(ctx context.Context, id int) (domain.Diary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT diary_id, user_id, entry_date, content, emotion, created_at, updated_at
		FROM diaries WHERE diary_id = ?`, id)
	return scanDiary(row)
}

func (r *diariesRepo) ListDiariesByUser(ctx context.Context, userID int) ([]domain.Diary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT diary_id, user_id, entry_date, content, emotion, created_at, updated_at
		FROM diaries WHERE user_id = ?
		ORDER BY entry_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Diary
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *diariesRepo) UpdateDiary(ctx context.Context, d domain.Diary) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE diaries SET content = ?, emotion = ?, updated_at = ?
		WHERE diary_id = ?`,
		d.Content, d.Emotion, time.Now().UTC(), d.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *diariesRepo) DeleteDiary(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diaries WHERE diary_id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *diariesRepo) ListDiaryDaysInMonth(ctx context.Context, userID, year, month int) ([]int, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT entry_date FROM diaries
		WHERE user_id = ? AND entry_date LIKE ?
		ORDER BY entry_date`,
		userID, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		days = append(days, parseDate(date).Day())
	}
	return days, rows.Err()
}

func scanDiary(row rowScanner) (domain.Diary, error) {
	var d domain.Diary
	var entryDate string
	err := row.Scan(&d.ID, &d.UserID, &entryDate, &d.Content, &d.Emotion, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Diary{}, mapNotFound(err)
	}
	d.EntryDate = parseDate(entryDate)
	return d, nil
}
