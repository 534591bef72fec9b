package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records commit/rollback calls. The embedded pgx.Tx is never
// invoked for the methods under test.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestWithTransaction_Commit(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}

	called := false
	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	fnErr := errors.New("insert failed")

	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		return fnErr
	})

	require.ErrorIs(t, err, fnErr)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestWithTransaction_BeginError(t *testing.T) {
	beginErr := errors.New("pool exhausted")
	beginner := &fakeBeginner{beginErr: beginErr}

	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		t.Fatal("fn must not run when Begin fails")
		return nil
	})

	require.ErrorIs(t, err, beginErr)
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
			panic("boom")
		})
	})

	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestWithTransaction_AppliesDeadline(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}

	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, 5*time.Second)
		return nil
	})

	require.NoError(t, err)
}

func TestWithTransaction_CommitError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}

	err := WithTransaction(context.Background(), beginner, func(ctx context.Context, tx pgx.Tx) error {
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
}
