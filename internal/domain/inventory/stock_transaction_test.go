package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyard/backend/internal/domain/shared"
)

func newIssueTx(t *testing.T) *StockTransaction {
	t.Helper()
	tx, err := NewStockTransaction(TransactionTypeIssue, uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(25))
	require.NoError(t, err)
	return tx
}

func TestNewStockTransaction(t *testing.T) {
	t.Run("valid issue", func(t *testing.T) {
		tx := newIssueTx(t)
		assert.Equal(t, TransactionTypeIssue, tx.Type)
		assert.False(t, tx.Reversed)
		assert.Nil(t, tx.ReversibleUntil)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewStockTransaction("teleport", uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1))
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeValidation))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewStockTransaction(TransactionTypeIssue, uuid.New(), uuid.New(), uuid.New(), decimal.Zero)
		require.Error(t, err)
	})
}

func TestCanReverse(t *testing.T) {
	now := time.Now()

	t.Run("within window", func(t *testing.T) {
		tx := newIssueTx(t)
		tx.WithUndoWindow(now.Add(5 * time.Minute))
		assert.NoError(t, tx.CanReverse(now))
	})

	t.Run("deadline itself is outside the window", func(t *testing.T) {
		tx := newIssueTx(t)
		tx.WithUndoWindow(now)
		err := tx.CanReverse(now)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUndoWindowExpired))
	})

	t.Run("expired window", func(t *testing.T) {
		tx := newIssueTx(t)
		tx.WithUndoWindow(now.Add(-time.Second))
		err := tx.CanReverse(now)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUndoWindowExpired))
	})

	t.Run("no window means not undoable", func(t *testing.T) {
		tx := newIssueTx(t)
		err := tx.CanReverse(now)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUndoWindowExpired))
	})

	t.Run("expiry wins over already reversed", func(t *testing.T) {
		tx := newIssueTx(t)
		tx.WithUndoWindow(now.Add(-time.Minute))
		tx.MarkReversed()
		err := tx.CanReverse(now)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUndoWindowExpired))
	})

	t.Run("already reversed inside window", func(t *testing.T) {
		tx := newIssueTx(t)
		tx.WithUndoWindow(now.Add(time.Hour))
		tx.MarkReversed()
		err := tx.CanReverse(now)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeAlreadyReversed))
	})
}

func TestNewReversalTransaction(t *testing.T) {
	original := newIssueTx(t)
	original.WithUndoWindow(time.Now().Add(time.Hour))
	original.WithBatchRefs([]BatchRef{{BatchID: uuid.New(), Qty: decimal.NewFromInt(25)}})

	actor := uuid.New()
	reversal, err := NewReversalTransaction(original, actor)
	require.NoError(t, err)

	assert.Equal(t, TransactionTypeAdjustment, reversal.Type)
	require.NotNil(t, reversal.ReversalOfID)
	assert.Equal(t, original.ID, *reversal.ReversalOfID)
	assert.Equal(t, actor, reversal.OwnerID)
	assert.Equal(t, original.BatchRefs, reversal.BatchRefs)
	assert.Nil(t, reversal.ReversibleUntil)

	t.Run("reversal cannot be reversed", func(t *testing.T) {
		reversal.WithUndoWindow(time.Now().Add(time.Hour))
		err := reversal.CanReverse(time.Now())
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInvalidState))
	})
}
