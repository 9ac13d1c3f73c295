package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"akounamatata-system/internal/qrcode"
	"akounamatata-system/internal/services/core"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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
	return db, mock
}

func tableColumns() []string {
	return []string{
		"id", "number", "capacity", "restaurant_id", "occupied",
		"occupied_at", "current_client_id", "qr_code", "created_at", "updated_at",
	}
}

func TestOccupyLosesRace(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewService(db, qrcode.NewCodec("http://localhost:3000", 24*time.Hour))

	now := time.Now()

	// The guarded update touches zero rows: someone else claimed the table
	// between the client's read and this write.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tables" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "tables"`).
		WillReturnRows(sqlmock.NewRows(tableColumns()).
			AddRow(2, "T2", 4, "akounamatata_main", true, now, nil, nil, now, now))

	_, err := svc.Occupy(context.Background(), 2, 1)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict for the losing occupant, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOccupyClaimsFreeTable(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewService(db, qrcode.NewCodec("http://localhost:3000", 24*time.Hour))

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tables" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "tables"`).
		WillReturnRows(sqlmock.NewRows(tableColumns()).
			AddRow(2, "T2", 4, "akounamatata_main", true, now, nil, nil, now, now))

	got, err := svc.Occupy(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("Occupy failed: %v", err)
	}
	if !got.Occupied {
		t.Error("expected the returned table to be occupied")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestQRCodeReturnsStoredToken(t *testing.T) {
	codec := qrcode.NewCodec("http://localhost:3000", 24*time.Hour)
	db, mock := newTestDB(t)
	svc := NewService(db, codec)

	now := time.Now()
	stored := "http://localhost:3000/menu/?id=2&number=T2&timestamp=1700000000000&type=table"

	mock.ExpectQuery(`SELECT \* FROM "tables"`).
		WillReturnRows(sqlmock.NewRows(tableColumns()).
			AddRow(2, "T2", 4, "akounamatata_main", false, nil, nil, stored, now, now))

	token, image, err := svc.QRCode(context.Background(), 2)
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if token != stored {
		t.Errorf("expected the persisted token back, got %q", token)
	}

	// The image must be the stored token's rendering, not a re-encode with a
	// fresh timestamp.
	want, err := codec.Render(stored)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if image != want {
		t.Error("image does not match the stored token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
