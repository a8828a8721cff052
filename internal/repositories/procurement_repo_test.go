package repositories

import (
	"context"
	"testing"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcurementRepoMock(t *testing.T) (ProcurementRepository, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewProcurementRepo(mock), mock
}

func pushableOrder() *models.ProcurementOrder {
	return &models.ProcurementOrder{
		ID:         uuid.New(),
		SupplierID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   40,
		UnitPrice:  3.25,
		Status:     models.ProcurementStatusReceived,
	}
}

func TestProcurementRepoPushToInventoryCommits(t *testing.T) {
	repo, mock := newProcurementRepoMock(t)
	order := pushableOrder()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE procurement_orders").
		WithArgs(order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO inventory").
		WithArgs(pgxmock.AnyArg(), order.ProductID, order.SupplierID,
			order.Quantity, order.UnitPrice, "farm").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := repo.PushToInventory(context.Background(), order, "farm")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcurementRepoPushToInventoryAlreadyPushed(t *testing.T) {
	repo, mock := newProcurementRepoMock(t)
	order := pushableOrder()

	// The guarded flag update matches no rows once another push has flipped
	// it, so no stock is credited and the transaction rolls back.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE procurement_orders").
		WithArgs(order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.PushToInventory(context.Background(), order, "farm")

	assert.ErrorIs(t, err, ErrAlreadyPushed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcurementRepoPushToInventoryRollsBackOnUpsertFailure(t *testing.T) {
	repo, mock := newProcurementRepoMock(t)
	order := pushableOrder()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE procurement_orders").
		WithArgs(order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO inventory").
		WithArgs(pgxmock.AnyArg(), order.ProductID, order.SupplierID,
			order.Quantity, order.UnitPrice, "aggregator").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.PushToInventory(context.Background(), order, "aggregator")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
