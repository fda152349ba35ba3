package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

type questionsRepo struct {
	db dbtx
}

func (r *questionsRepo) CreateQuestion(ctx context.Context, q domain.Question) (int, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO questions (user_id, title, content, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.UserID, q.Title, q.Content, domain.QuestionOpen, now, now)
	if err != nil {
		return 0, err
	}
	return lastInsertID(res)
}

const questionColumns = `
	q.question_id, q.user_id, q.title, q.content, q.status, q.created_at, q.updated_at,
	a.answer_id, a.admin_id, a.content, a.created_at`

const questionJoin = `
	FROM questions q
	LEFT JOIN answers a ON a.question_id = q.question_id`

func (r *questionsRepo) GetQuestionByID(ctx context.Context, id int) (domain.Question, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT`+questionColumns+questionJoin+` WHERE q.question_id = ?`, id)
	return scanQuestion(row)
}

func (r *questionsRepo) ListQuestionsByUser(ctx context.Context, userID int) ([]domain.Question, error) {
	return r.listQuestions(ctx,
		`WHERE q.user_id = ? ORDER BY q.question_id DESC`, userID)
}

func (r *questionsRepo) ListOpenQuestions(ctx context.Context) ([]domain.Question, error) {
	return r.listQuestions(ctx,
		`WHERE q.status = ? ORDER BY q.question_id`, domain.QuestionOpen)
}

func (r *questionsRepo) listQuestions(ctx context.Context, tail string, args ...any) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT`+questionColumns+questionJoin+` `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *questionsRepo) CreateAnswer(ctx context.Context, a domain.Answer) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (question_id, admin_id, content, created_at)
		VALUES (?, ?, ?, ?)`,
		a.QuestionID, a.AdminID, a.Content, time.Now().UTC())
	if err != nil {
		return 0, mapConstraint(err)
	}
	return lastInsertID(res)
}

func (r *questionsRepo) MarkQuestionAnswered(ctx context.Context, id int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE questions SET status = ?, updated_at = ? WHERE question_id = ?`,
		domain.QuestionAnswered, at.UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var q domain.Question
	var ansID, adminID sql.NullInt64
	var ansContent sql.NullString
	var ansCreated sql.NullTime

	err := row.Scan(
		&q.ID, &q.UserID, &q.Title, &q.Content, &q.Status, &q.CreatedAt, &q.UpdatedAt,
		&ansID, &adminID, &ansContent, &ansCreated,
	)
	if err != nil {
		return domain.Question{}, mapNotFound(err)
	}

	if ansID.Valid {
		q.Answer = &domain.Answer{
			ID:         int(ansID.Int64),
			QuestionID: q.ID,
			AdminID:    int(adminID.Int64),
			Content:    ansContent.String,
			CreatedAt:  ansCreated.Time,
		}
	}
	return q, nil
}
