package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"akounamatata-system/internal/services/core"
)

func expectGetLoadedCart(mock sqlmock.Sqlmock, now time.Time) {
	mock.ExpectQuery(`SELECT \* FROM "carts"`).
		WillReturnRows(sqlmock.NewRows(cartColumns()).
			AddRow(10, 1, 2, 5500.0, "FCFA", true, now, now))
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows(cartItemColumns()).
			AddRow(100, 10, 7, 2, 2500.0, "", now).
			AddRow(101, 10, 8, 1, 500.0, "", now))
	mock.ExpectQuery(`SELECT \* FROM "dishes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "category_id", "image_url", "available", "prep_time_minutes", "created_at", "updated_at"}).
			AddRow(7, "Poulet DG", "", 2500.0, nil, nil, true, 0, now, now).
			AddRow(8, "Jus de bissap", "", 500.0, nil, nil, true, 0, now, now))
	mock.ExpectQuery(`SELECT \* FROM "tables"`).
		WillReturnRows(sqlmock.NewRows(tableColumns()).
			AddRow(2, "T2", 4, "akounamatata_main", true, now, nil, nil, now, now))
}

func TestConvertToOrderNumberCollision(t *testing.T) {
	svc, mock, rmock := newTestService(t)
	now := time.Now()

	expectCartLock(rmock, 1, 2)
	expectGetLoadedCart(mock, now)

	// A concurrent conversion counted the same N and claimed CMD%06d(N+1)
	// first; the unique index rejects this insert and the caller must see a
	// retryable conflict, not an internal error.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := svc.ConvertToOrder(context.Background(), 1, 2, "", "")
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict on duplicate order number, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sql expectations: %v", err)
	}
	if err := rmock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestConvertToOrderAlreadyConverted(t *testing.T) {
	svc, mock, rmock := newTestService(t)
	now := time.Now()

	expectCartLock(rmock, 1, 2)
	expectGetLoadedCart(mock, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(111).AddRow(112))

	// The guarded deactivation finds the cart no longer active: a parallel
	// conversion already took it. The whole transaction rolls back so no
	// second order survives.
	mock.ExpectExec(`UPDATE "carts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ConvertToOrder(context.Background(), 1, 2, "", "")
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict when the cart was already converted, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sql expectations: %v", err)
	}
	if err := rmock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}
