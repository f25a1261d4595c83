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

func makeBatch(t *testing.T, qty int64, receivedAt time.Time) *StockBatch {
	t.Helper()
	batch, err := NewStockBatch(uuid.New(), uuid.New(), decimal.NewFromInt(qty), decimal.Zero, receivedAt)
	require.NoError(t, err)
	return batch
}

func TestPlanAllocationFIFO(t *testing.T) {
	base := time.Now().Add(-72 * time.Hour)
	oldest := makeBatch(t, 50, base)
	middle := makeBatch(t, 80, base.Add(24*time.Hour))
	newest := makeBatch(t, 100, base.Add(48*time.Hour))
	batches := []*StockBatch{oldest, middle, newest}

	t.Run("drains oldest batch first", func(t *testing.T) {
		plan, err := PlanAllocation(batches, decimal.NewFromInt(30), nil)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, oldest.ID, plan.Allocations[0].BatchID)
		assert.False(t, plan.FIFOWarning)
	})

	t.Run("spans batches in received order", func(t *testing.T) {
		plan, err := PlanAllocation(batches, decimal.NewFromInt(120), nil)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 2)
		assert.Equal(t, oldest.ID, plan.Allocations[0].BatchID)
		assert.True(t, plan.Allocations[0].Qty.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, middle.ID, plan.Allocations[1].BatchID)
		assert.True(t, plan.Allocations[1].Qty.Equal(decimal.NewFromInt(70)))
		assert.True(t, plan.TotalQty().Equal(decimal.NewFromInt(120)))
	})

	t.Run("skips drained batches", func(t *testing.T) {
		drained := makeBatch(t, 40, base.Add(-time.Hour))
		require.NoError(t, drained.Draw(decimal.NewFromInt(40)))
		plan, err := PlanAllocation([]*StockBatch{drained, oldest}, decimal.NewFromInt(10), nil)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, oldest.ID, plan.Allocations[0].BatchID)
	})

	t.Run("is all or nothing when stock is short", func(t *testing.T) {
		_, err := PlanAllocation(batches, decimal.NewFromInt(231), nil)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInsufficientStock))
		// no batch was touched by planning
		assert.True(t, oldest.RemainingQty.Equal(decimal.NewFromInt(50)))
	})
}

func TestPlanAllocationPinned(t *testing.T) {
	base := time.Now().Add(-48 * time.Hour)
	oldest := makeBatch(t, 60, base)
	newer := makeBatch(t, 90, base.Add(24*time.Hour))
	batches := []*StockBatch{oldest, newer}

	t.Run("pinning a newer batch sets the advisory warning", func(t *testing.T) {
		plan, err := PlanAllocation(batches, decimal.NewFromInt(20), &newer.ID)
		require.NoError(t, err)
		require.Len(t, plan.Allocations, 1)
		assert.Equal(t, newer.ID, plan.Allocations[0].BatchID)
		assert.True(t, plan.FIFOWarning)
	})

	t.Run("pinning the oldest batch raises no warning", func(t *testing.T) {
		plan, err := PlanAllocation(batches, decimal.NewFromInt(20), &oldest.ID)
		require.NoError(t, err)
		assert.False(t, plan.FIFOWarning)
	})

	t.Run("pinned batch must cover the full quantity", func(t *testing.T) {
		_, err := PlanAllocation(batches, decimal.NewFromInt(61), &oldest.ID)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInsufficientStock))
	})

	t.Run("unknown pinned batch", func(t *testing.T) {
		missing := uuid.New()
		_, err := PlanAllocation(batches, decimal.NewFromInt(1), &missing)
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeNotFound))
	})
}

func TestApplyAllocation(t *testing.T) {
	base := time.Now().Add(-48 * time.Hour)
	first := makeBatch(t, 50, base)
	second := makeBatch(t, 50, base.Add(time.Hour))
	batches := []*StockBatch{first, second}

	plan, err := PlanAllocation(batches, decimal.NewFromInt(75), nil)
	require.NoError(t, err)
	require.NoError(t, ApplyAllocation(plan, batches))

	assert.True(t, first.IsDrained())
	assert.True(t, second.RemainingQty.Equal(decimal.NewFromInt(25)))
	assert.True(t, TotalRemaining(batches).Equal(decimal.NewFromInt(25)))
}
