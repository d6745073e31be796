package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitravel/tour-booking-api/internal/model"
)

func bookingTestTx(t *testing.T) (*BookingRepo, *sql.Tx, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return NewBookingRepo(db), tx, mock
}

func TestCreateTxMapsDuplicateKeyError(t *testing.T) {
	repo, tx, mock := bookingTestTx(t)
	// The unique (user_id, tour_date_id) index fires on a second active
	// booking for the same student and date.
	mock.ExpectExec("INSERT INTO tour_bookings").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-3' for key 'uniq_user_date'"))

	b := model.TourBooking{UserID: 7, TourID: 1, TourDateID: 3, Status: model.BookingPending, TotalPrice: decimal.NewFromInt(100)}
	err := repo.CreateTx(context.Background(), tx, &b)
	assert.ErrorIs(t, err, ErrDuplicateBooking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxPopulatesID(t *testing.T) {
	repo, tx, mock := bookingTestTx(t)
	mock.ExpectExec("INSERT INTO tour_bookings").
		WillReturnResult(sqlmock.NewResult(15, 1))

	b := model.TourBooking{UserID: 7, TourID: 1, TourDateID: 3, Status: model.BookingPending, TotalPrice: decimal.NewFromInt(100)}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &b))
	assert.Equal(t, uint64(15), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasActiveTx(t *testing.T) {
	repo, tx, mock := bookingTestTx(t)
	mock.ExpectQuery("SELECT 1 FROM tour_bookings").
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.HasActiveTx(context.Background(), tx, 7, 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasActiveTxNoRows(t *testing.T) {
	repo, tx, mock := bookingTestTx(t)
	mock.ExpectQuery("SELECT 1 FROM tour_bookings").
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.HasActiveTx(context.Background(), tx, 7, 3)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdminNotesTx(t *testing.T) {
	repo, tx, mock := bookingTestTx(t)
	mock.ExpectExec("UPDATE tour_bookings SET admin_notes").
		WithArgs("call back monday", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAdminNotesTx(context.Background(), tx, 9, "call back monday"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAdminNotesTxPropagatesError(t *testing.T) {
	repo, tx, mock := bookingTestTx(t)
	boom := errors.New("connection reset")
	mock.ExpectExec("UPDATE tour_bookings SET admin_notes").
		WillReturnError(boom)

	err := repo.SetAdminNotesTx(context.Background(), tx, 9, "call back monday")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
