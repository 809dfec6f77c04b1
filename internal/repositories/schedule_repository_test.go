package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReserveSeatsGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bus_schedules").
		WithArgs(3, int64(5), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bus_schedules").
		WithArgs(3, int64(5), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	defer tx.Rollback()

	repo := ScheduleRepo{DB: db}

	ok, err := repo.ReserveSeats(tx, 5, 3)
	if err != nil {
		t.Fatalf("reserve error: %v", err)
	}
	if !ok {
		t.Fatal("reserve should succeed when seats remain")
	}

	ok, err = repo.ReserveSeats(tx, 5, 3)
	if err != nil {
		t.Fatalf("reserve error: %v", err)
	}
	if ok {
		t.Fatal("reserve should fail when the guard matches no row")
	}
}

func TestSearchMatchesBothEndpointOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	dayStart := time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	cols := []string{
		"id", "bus_number", "route", "date", "departure", "arrival", "driver", "fare", "status",
		"available_seats", "total_seats", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM bus_schedules").
		WithArgs("Mumbai", "Pune", "Pune", "Mumbai", dayStart, dayEnd, "Cancelled").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(5), "MH12AB1234", "Mumbai - Pune", dayStart, "08:00", "14:30", "Ravi Kumar",
			500.0, "Scheduled", 10, 40, dayStart, dayStart,
		))

	repo := ScheduleRepo{DB: db}

	schedules, err := repo.Search("Mumbai", "Pune", dayStart, dayEnd)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("got %d schedules, want 1", len(schedules))
	}
	if schedules[0].Route != "Mumbai - Pune" {
		t.Fatalf("route = %q", schedules[0].Route)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
