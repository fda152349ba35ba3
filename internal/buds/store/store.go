package store

import (
	"context"
	"errors"
	"time"

	"github.com/pairingbuds/buds/internal/buds/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Matches() Matches
	Letters() Letters
	Diaries() Diaries
	Badges() Badges
	Quotes() Quotes
	Questions() Questions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user and returns the generated id.
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) (int, error)

	GetUserByID(ctx context.Context, id int) (domain.User, error)

	// GetUserByEmail is used during credential verification.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by id. Admin use.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// SetUserActive flips the active flag and bumps updated_at.
	SetUserActive(ctx context.Context, id int, active bool) error
}

type Matches interface {
	// CreateMatch pairs two users. Returns ErrAlreadyExists when the pair
	// is already matched.
	CreateMatch(ctx context.Context, user1ID, user2ID int) (int, error)

	GetMatchByID(ctx context.Context, id int) (domain.Match, error)

	// GetMatchForUser returns the user's current match.
	GetMatchForUser(ctx context.Context, userID int) (domain.Match, error)
}

type Letters interface {
	CreateLetter(ctx context.Context, l domain.Letter) (int, error)

	GetLetterByID(ctx context.Context, id int) (domain.Letter, error)

	// ListReceived returns letters addressed to the user, newest first,
	// with the viewer's favorite flag resolved.
	ListReceived(ctx context.Context, userID int) ([]domain.Letter, error)

	// ListSent returns letters the user wrote, newest first.
	ListSent(ctx context.Context, userID int) ([]domain.Letter, error)

	// MarkLetterRead flips status to READ.
	MarkLetterRead(ctx context.Context, id int) error

	// FavoriteLetter is idempotent; favoriting twice is a no-op.
	FavoriteLetter(ctx context.Context, userID, letterID int) error

	UnfavoriteLetter(ctx context.Context, userID, letterID int) error

	ListFavorites(ctx context.Context, userID int) ([]domain.Letter, error)
}

type Diaries interface {
	// CreateDiary inserts a dated entry. Returns ErrAlreadyExists when the
	// user already has an entry for that date.
	CreateDiary(ctx context.Context, d domain.Diary) (int, error)

	GetDiaryByID(ctx context.Context, id int) (domain.Diary, error)

	// ListDiariesByUser returns the user's entries, newest first.
	ListDiariesByUser(ctx context.Context, userID int) ([]domain.Diary, error)

	UpdateDiary(ctx context.Context, d domain.Diary) error

	DeleteDiary(ctx context.Context, id int) error

	// ListDiaryDaysInMonth returns the days-of-month that have an entry.
	ListDiaryDaysInMonth(ctx context.Context, userID, year, month int) ([]int, error)
}

type Badges interface {
	AwardBadge(ctx context.Context, b domain.Badge) (int, error)

	// ListBadgesInMonth returns badges awarded to the user in the month.
	ListBadgesInMonth(ctx context.Context, userID, year, month int) ([]domain.Badge, error)
}

type Quotes interface {
	CreateQuote(ctx context.Context, q domain.Quote) (int, error)

	DeleteQuote(ctx context.Context, id int) error

	CountQuotes(ctx context.Context) (int, error)

	// GetQuoteByOffset returns the n-th quote in id order. Used to pick a
	// deterministic quote of the day.
	GetQuoteByOffset(ctx context.Context, offset int) (domain.Quote, error)
}

type Questions interface {
	CreateQuestion(ctx context.Context, q domain.Question) (int, error)

	// GetQuestionByID returns the question with its answer, if any.
	GetQuestionByID(ctx context.Context, id int) (domain.Question, error)

	// ListQuestionsByUser returns the user's questions, newest first,
	// answers included.
	ListQuestionsByUser(ctx context.Context, userID int) ([]domain.Question, error)

	// ListOpenQuestions returns unanswered questions, oldest first. Admin use.
	ListOpenQuestions(ctx context.Context) ([]domain.Question, error)

	// CreateAnswer records the admin's reply. The caller is responsible for
	// also marking the question answered, in the same transaction.
	CreateAnswer(ctx context.Context, a domain.Answer) (int, error)

	// MarkQuestionAnswered flips status to ANSWERED and bumps updated_at.
	MarkQuestionAnswered(ctx context.Context, id int, at time.Time) error
}
