package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cypher6783/gasOrder/internal/domain/payment/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func setupMockRepo(t *testing.T) (PaymentRepository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	assert.NoError(t, err)

	return NewPaymentRepository(db), mock
}

func TestUpdateEscrowState(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WithArgs(model.EscrowReleased, sqlmock.AnyArg(), "payment-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateEscrowState("payment-1", model.EscrowReleased)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmSuccess(t *testing.T) {
	t.Run("Payment and order updated in one transaction", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		paidAt := time.Now()
		metadata := json.RawMessage(`{"reference":"ref-1"}`)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ConfirmSuccess("payment-1", "order-1", paidAt, metadata)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Order update failure rolls back payment update", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnError(gorm.ErrInvalidData)
		mock.ExpectRollback()

		err := repo.ConfirmSuccess("payment-1", "order-1", time.Now(), nil)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListPayoutCandidates(t *testing.T) {
	t.Run("Only released and unbatched payments returned", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		rows := sqlmock.NewRows([]string{"id", "amount", "vendor_id"}).
			AddRow("payment-1", 10000.0, "vendor-a").
			AddRow("payment-2", 2500.0, "vendor-b")
		mock.ExpectQuery(`JOIN orders ON orders.id = payments.order_id`).
			WithArgs(model.EscrowReleased).
			WillReturnRows(rows)

		candidates, err := repo.ListPayoutCandidates()

		assert.NoError(t, err)
		assert.Len(t, candidates, 2)
		assert.Equal(t, "payment-1", candidates[0].PaymentID)
		assert.Equal(t, "vendor-a", candidates[0].VendorID)
		assert.Equal(t, float64(10000), candidates[0].Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty result set", func(t *testing.T) {
		repo, mock := setupMockRepo(t)

		mock.ExpectQuery(`JOIN orders ON orders.id = payments.order_id`).
			WithArgs(model.EscrowReleased).
			WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "vendor_id"}))

		candidates, err := repo.ListPayoutCandidates()

		assert.NoError(t, err)
		assert.Empty(t, candidates)
	})
}
