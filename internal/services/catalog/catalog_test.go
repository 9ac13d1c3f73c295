package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"akounamatata-system/internal/services/core"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, redismock.ClientMock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	rdb, rmock := redismock.NewClientMock()
	return NewService(db, rdb), mock, rmock
}

func dishColumns() []string {
	return []string{"id", "name", "description", "price", "category_id", "image_url", "available", "prep_time_minutes", "created_at", "updated_at"}
}

func TestDeleteDishStillReferenced(t *testing.T) {
	svc, mock, _ := newTestService(t)

	// Cart and order lines keep their dish references after the cart is
	// deactivated, so the delete trips the foreign key. That is a client
	// conflict, not an internal failure.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "dishes"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := svc.DeleteDish(context.Background(), 7)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict for a referenced dish, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sql expectations: %v", err)
	}
}

func TestUpdateDishZeroPrice(t *testing.T) {
	svc, mock, rmock := newTestService(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "dishes"`).
		WillReturnRows(sqlmock.NewRows(dishColumns()).
			AddRow(5, "Beignet offert", "", 500.0, nil, nil, true, 0, now, now))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "dishes" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rmock.ExpectDel(categoriesCacheKey).SetVal(1)
	rmock.ExpectDel("catalog:dish:5").SetVal(1)

	zero := 0.0
	d, err := svc.UpdateDish(context.Background(), 5, DishInput{Price: &zero})
	if err != nil {
		t.Fatalf("UpdateDish failed: %v", err)
	}
	if d.Price != 0 {
		t.Errorf("expected price set to 0, got %v", d.Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sql expectations: %v", err)
	}
	if err := rmock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestCreateDishPriceRequired(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateDish(context.Background(), DishInput{Name: "Ndolé"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for missing price, got %v", err)
	}

	negative := -1.0
	_, err = svc.CreateDish(context.Background(), DishInput{Name: "Ndolé", Price: &negative})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}
