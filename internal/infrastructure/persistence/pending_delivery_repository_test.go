package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

func testDelivery(t *testing.T) *logistics.PendingDelivery {
	t.Helper()
	delivery, err := logistics.NewPendingDelivery(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(100),
	)
	require.NoError(t, err)
	return delivery
}

func TestPendingDeliveryRepository_Resolve(t *testing.T) {
	t.Run("writes resolution over a pending row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewPendingDeliveryRepository(db)

		delivery := testDelivery(t)
		require.NoError(t, delivery.Confirm(decimal.NewFromInt(90), uuid.New()))

		mock.ExpectExec(`UPDATE "pending_deliveries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Resolve(context.Background(), delivery)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("racing resolution hits zero affected rows", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewPendingDeliveryRepository(db)

		delivery := testDelivery(t)
		require.NoError(t, delivery.Confirm(decimal.NewFromInt(100), uuid.New()))

		mock.ExpectExec(`UPDATE "pending_deliveries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Resolve(context.Background(), delivery)

		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeAlreadyResolved))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
