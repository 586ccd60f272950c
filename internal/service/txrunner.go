package service

import (
	"context"

	"altis.app/tracker/core/db"
	"altis.app/tracker/core/db/sqlc"
	"altis.app/tracker/internal/store"
)

// StoreProvider exposes the stores bound to one transaction.
type StoreProvider interface {
	Organizations() store.OrganizationStore
	Users() store.UserStore
	Issues() store.IssueStore
	Comments() store.CommentStore
	Activities() store.ActivityStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}
