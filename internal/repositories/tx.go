package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// txState is the transaction bound to a ctx plus the work deferred until it commits.
type txState struct {
	tx          *gorm.DB
	afterCommit []func(ctx context.Context)
}

// TxManager runs fn inside one database transaction. Repositories called with
// the ctx passed to fn join that transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TxManager {
	return &TransactionManager{db: db}
}

func (tm *TransactionManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	state := &txState{}
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}
	state.commit(ctx)
	return nil
}

func (s *txState) commit(ctx context.Context) {
	for _, fn := range s.afterCommit {
		fn(ctx)
	}
	s.afterCommit = nil
}

// GetTx returns the transaction bound to ctx, or db scoped to ctx.
func GetTx(ctx context.Context, db *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && state.tx != nil {
		return state.tx
	}
	return db.WithContext(ctx)
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}

// AfterCommit runs fn once the transaction on ctx commits, or right away when
// there is none. A rolled back transaction drops fn.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.afterCommit = append(state.afterCommit, fn)
		return
	}
	fn(ctx)
}
