package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

var bookingTestNow = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func scheduleRow(id int64, available int, fare float64, route string) *sqlmock.Rows {
	cols := []string{
		"id", "bus_number", "route", "date", "departure", "arrival", "driver", "fare", "status",
		"available_seats", "total_seats", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		id, "MH12AB1234", route, bookingTestNow.AddDate(0, 0, 7), "08:00", "14:30", "Ravi Kumar",
		fare, models.ScheduleScheduled, available, 40, bookingTestNow, bookingTestNow,
	)
}

func busRow() *sqlmock.Rows {
	cols := []string{"id", "bus_number", "registration_number", "capacity", "bus_type", "status", "created_at", "updated_at"}
	return sqlmock.NewRows(cols).AddRow(
		int64(3), "MH12AB1234", "MH-12-AB-1234", 40, "AC", models.BusStatusActive, bookingTestNow, bookingTestNow,
	)
}

func bookingRow(id, userID int64, bookingStatus, paymentStatus string) *sqlmock.Rows {
	cols := []string{
		"id", "user_id", "schedule_id", "bus_id", "route_from", "route_to", "travel_date",
		"departure_time", "arrival_time", "total_amount", "payment_status", "payment_method",
		"booking_status", "booking_reference", "contact_email", "contact_phone",
		"cancelled_at", "cancellation_reason", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		id, userID, int64(5), int64(3), "Mumbai", "Pune", bookingTestNow.AddDate(0, 0, 7),
		"08:00", "14:30", 1000.0, paymentStatus, "Online",
		bookingStatus, "BK17650000000007", "rider@example.com", "9876543210",
		nil, "", bookingTestNow, bookingTestNow,
	)
}

func passengerRowsFor(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"name", "age", "gender", "seat_number"})
	for i, n := range names {
		rows.AddRow(n, 30+i, "Male", "A"+string(rune('1'+i)))
	}
	return rows
}

func twoPassengers() []models.Passenger {
	return []models.Passenger{
		{Name: "Asha Patel", Age: 31, Gender: "Female", SeatNumber: "A1"},
		{Name: "Vikram Patel", Age: 34, Gender: "Male", SeatNumber: "A2"},
	}
}

func TestBookingReferenceFormat(t *testing.T) {
	ref := newBookingReference(bookingTestNow)
	if !regexp.MustCompile(`^BK\d{13}\d{1,3}$`).MatchString(ref) {
		t.Fatalf("reference %q does not match BK<millis><suffix>", ref)
	}
}

func TestCreateBookingReservesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bus_schedules WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(scheduleRow(5, 10, 500, "Mumbai - Pune"))
	mock.ExpectQuery("SELECT (.+) FROM buses WHERE bus_number").
		WithArgs("MH12AB1234").
		WillReturnRows(busRow())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bus_schedules").
		WithArgs(2, int64(5), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_passengers").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_passengers").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(bookingRow(42, 9, models.BookingActive, models.PaymentPending))
	mock.ExpectQuery("SELECT (.+) FROM booking_passengers").
		WithArgs(int64(42)).
		WillReturnRows(passengerRowsFor("Asha Patel", "Vikram Patel"))

	svc := BookingService{DB: db, Now: func() time.Time { return bookingTestNow }}

	booking, err := svc.CreateBooking(9, CreateBookingInput{
		ScheduleID:   5,
		Passengers:   twoPassengers(),
		ContactEmail: "rider@example.com",
		ContactPhone: "9876543210",
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if booking.ID != 42 {
		t.Fatalf("booking id = %d, want 42", booking.ID)
	}
	if booking.From != "Mumbai" || booking.To != "Pune" {
		t.Fatalf("route split = %q -> %q", booking.From, booking.To)
	}
	if len(booking.Passengers) != 2 {
		t.Fatalf("passengers = %d, want 2", len(booking.Passengers))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingInsufficientSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bus_schedules WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(scheduleRow(5, 1, 500, "Mumbai - Pune"))
	mock.ExpectQuery("SELECT (.+) FROM buses WHERE bus_number").
		WithArgs("MH12AB1234").
		WillReturnRows(busRow())

	svc := BookingService{DB: db, Now: func() time.Time { return bookingTestNow }}

	_, err = svc.CreateBooking(9, CreateBookingInput{
		ScheduleID:   5,
		Passengers:   twoPassengers(),
		ContactEmail: "rider@example.com",
		ContactPhone: "9876543210",
	})
	if !domain.IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}
	if err.Error() != "Only 1 seats available" {
		t.Fatalf("message = %q", err.Error())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingLosesGuardedDecrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Pre-check sees 2 seats but a concurrent booking takes them first; the
	// guarded UPDATE matches no row and the whole attempt rolls back.
	mock.ExpectQuery("SELECT (.+) FROM bus_schedules WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(scheduleRow(5, 2, 500, "Mumbai - Pune"))
	mock.ExpectQuery("SELECT (.+) FROM buses WHERE bus_number").
		WithArgs("MH12AB1234").
		WillReturnRows(busRow())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bus_schedules").
		WithArgs(2, int64(5), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: func() time.Time { return bookingTestNow }}

	_, err = svc.CreateBooking(9, CreateBookingInput{
		ScheduleID:   5,
		Passengers:   twoPassengers(),
		ContactEmail: "rider@example.com",
		ContactPhone: "9876543210",
	})
	if !domain.IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingRestoresSeatsAndRefunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(bookingRow(42, 9, models.BookingActive, models.PaymentCompleted))
	mock.ExpectQuery("SELECT (.+) FROM booking_passengers").
		WithArgs(int64(42)).
		WillReturnRows(passengerRowsFor("Asha Patel", "Vikram Patel"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").
		WithArgs(models.BookingCancelled, bookingTestNow, "Cancelled by user", models.PaymentRefunded, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bus_schedules").
		WithArgs(2, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: func() time.Time { return bookingTestNow }}

	booking, err := svc.CancelBooking(42, 9, "")
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if booking.BookingStatus != models.BookingCancelled {
		t.Fatalf("status = %q, want Cancelled", booking.BookingStatus)
	}
	if booking.PaymentStatus != models.PaymentRefunded {
		t.Fatalf("payment = %q, want Refunded", booking.PaymentStatus)
	}
	if booking.CancellationReason != "Cancelled by user" {
		t.Fatalf("reason = %q", booking.CancellationReason)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingTwiceFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(bookingRow(42, 9, models.BookingCancelled, models.PaymentRefunded))
	mock.ExpectQuery("SELECT (.+) FROM booking_passengers").
		WithArgs(int64(42)).
		WillReturnRows(passengerRowsFor("Asha Patel"))

	svc := BookingService{DB: db, Now: func() time.Time { return bookingTestNow }}

	_, err = svc.CancelBooking(42, 9, "changed my mind")
	if !domain.IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingOwnershipEnforced(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(bookingRow(42, 9, models.BookingActive, models.PaymentPending))
	mock.ExpectQuery("SELECT (.+) FROM booking_passengers").
		WithArgs(int64(42)).
		WillReturnRows(passengerRowsFor("Asha Patel"))

	svc := BookingService{DB: db, Now: func() time.Time { return bookingTestNow }}

	_, err = svc.GetByID(42, 13)
	if !domain.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
