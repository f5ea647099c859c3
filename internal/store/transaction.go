package store

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type contextKey int

const (
	transactionKey contextKey = iota
)

var txCounter atomic.Int64

type Tx struct {
	txId int64
	tx   *gorm.DB
	log  logrus.FieldLogger
}

func Commit(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(transactionKey).(*Tx)
	if !ok || tx == nil {
		return ctx, nil
	}

	newCtx := context.WithValue(ctx, transactionKey, nil)
	return newCtx, tx.Commit()
}

// Rollback is a no-op once the transaction was committed, so it is safe to defer.
func Rollback(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(transactionKey).(*Tx)
	if !ok || tx == nil {
		return ctx, nil
	}
	if tx.tx == nil {
		return ctx, nil
	}

	newCtx := context.WithValue(ctx, transactionKey, nil)
	return newCtx, tx.Rollback()
}

func FromContext(ctx context.Context) *gorm.DB {
	if tx, found := ctx.Value(transactionKey).(*Tx); found && tx != nil {
		if dbTx, err := tx.Db(); err == nil {
			return dbTx
		}
	}
	return nil
}

func newTransactionContext(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) (context.Context, error) {
	if tx, found := ctx.Value(transactionKey).(*Tx); found && tx != nil && tx.tx != nil {
		return ctx, nil
	}

	conn := db.Session(&gorm.Session{
		Context: ctx,
	})

	tx, err := newTransaction(conn, log)
	if err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, transactionKey, tx), nil
}

func newTransaction(db *gorm.DB, log logrus.FieldLogger) (*Tx, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	return &Tx{
		txId: txCounter.Add(1),
		tx:   tx,
		log:  log,
	}, nil
}

func (t *Tx) Db() (*gorm.DB, error) {
	if t.tx != nil {
		return t.tx, nil
	}
	return nil, errors.New("transaction hasn't started yet")
}

func (t *Tx) Commit() error {
	if t.tx == nil {
		return errors.New("transaction hasn't started yet")
	}

	if err := t.tx.Commit().Error; err != nil {
		t.log.Errorf("failed to commit transaction %d: %v", t.txId, err)
		return err
	}
	t.log.Debugf("transaction %d commited", t.txId)
	t.tx = nil
	return nil
}

func (t *Tx) Rollback() error {
	if t.tx == nil {
		return errors.New("transaction hasn't started yet")
	}

	if err := t.tx.Rollback().Error; err != nil {
		t.log.Errorf("failed to rollback transaction %d: %v", t.txId, err)
		return err
	}
	t.tx = nil

	t.log.Debugf("transaction %d rollback", t.txId)
	return nil
}
