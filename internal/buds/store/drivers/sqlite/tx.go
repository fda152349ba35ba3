package sqlite

import (
	"context"
	"database/sql"

	"github.com/pairingbuds/buds/internal/buds/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller commits/rollbacks; outer DB stays open

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users         { return &usersRepo{db: t.tx} }
func (t *txStore) Matches() store.Matches     { return &matchesRepo{db: t.tx} }
func (t *txStore) Letters() store.Letters     { return &lettersRepo{db: t.tx} }
func (t *txStore) Diaries() store.Diaries     { return &diariesRepo{db: t.tx} }
func (t *txStore) Badges() store.Badges       { return &badgesRepo{db: t.tx} }
func (t *txStore) Quotes() store.Quotes       { return &quotesRepo{db: t.tx} }
func (t *txStore) Questions() store.Questions { return &questionsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts
