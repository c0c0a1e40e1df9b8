package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite/gen"
)

// txStore scopes every repo to one *sql.Tx. With an in-memory database the
// pool holds a single connection, so code inside WithTx must only use the tx
// it was handed.
type txStore struct {
	tx *sql.Tx
	q  *gen.Queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx, q: gen.New(tx)}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Users() store.Users                   { return &usersRepo{q: t.q} }
func (t *txStore) Sessions() store.Sessions             { return &sessionsRepo{q: t.q} }
func (t *txStore) PasswordResets() store.PasswordResets { return &passwordResetsRepo{q: t.q} }
func (t *txStore) Hubs() store.Hubs                     { return &hubsRepo{q: t.q} }
func (t *txStore) Memberships() store.Memberships       { return &membershipsRepo{q: t.q} }

func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, store.ErrNestedTx }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return store.ErrNestedTx }

// The outer Store owns the connection, migrations and lifecycle.
func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
