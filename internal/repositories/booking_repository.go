package repositories

import (
	"database/sql"
	"time"

	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

const bookingColumns = `id, user_id, schedule_id, bus_id, route_from, route_to, travel_date,
	departure_time, arrival_time, total_amount, payment_status, payment_method, booking_status,
	booking_reference, contact_email, contact_phone, cancelled_at, cancellation_reason,
	created_at, updated_at`

func scanBookingRow(scan func(dest ...any) error) (models.Booking, error) {
	var b models.Booking
	var cancelledAt sql.NullTime
	err := scan(
		&b.ID,
		&b.UserID,
		&b.ScheduleID,
		&b.BusID,
		&b.From,
		&b.To,
		&b.TravelDate,
		&b.DepartureTime,
		&b.ArrivalTime,
		&b.TotalAmount,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.BookingStatus,
		&b.BookingReference,
		&b.ContactEmail,
		&b.ContactPhone,
		&cancelledAt,
		&b.CancellationReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.CancelledAt = intdb.TimePtr(cancelledAt)
	return b, nil
}

// CreateTx inserts the booking and its passenger rows inside the caller's
// transaction so seat reservation and booking creation commit together.
func (r BookingRepo) CreateTx(tx *sql.Tx, b models.Booking) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO bookings (user_id, schedule_id, bus_id, route_from, route_to, travel_date,
			departure_time, arrival_time, total_amount, payment_status, payment_method,
			booking_status, booking_reference, contact_email, contact_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.ScheduleID, b.BusID, b.From, b.To, b.TravelDate,
		b.DepartureTime, b.ArrivalTime, b.TotalAmount, b.PaymentStatus, b.PaymentMethod,
		b.BookingStatus, b.BookingReference, b.ContactEmail, b.ContactPhone,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, p := range b.Passengers {
		if _, err := tx.Exec(`
			INSERT INTO booking_passengers (booking_id, name, age, gender, seat_number)
			VALUES (?, ?, ?, ?, ?)`,
			id, p.Name, p.Age, p.Gender, p.SeatNumber,
		); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r BookingRepo) passengers(bookingID int64) ([]models.Passenger, error) {
	rows, err := r.DB.Query(`
		SELECT name, age, gender, seat_number FROM booking_passengers
		WHERE booking_id = ? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.Name, &p.Age, &p.Gender, &p.SeatNumber); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBookingRow(row.Scan)
	if err != nil {
		return b, err
	}
	b.Passengers, err = r.passengers(b.ID)
	return b, err
}

func (r BookingRepo) GetByReference(reference string) (models.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE booking_reference = ? LIMIT 1`, reference)
	b, err := scanBookingRow(row.Scan)
	if err != nil {
		return b, err
	}
	b.Passengers, err = r.passengers(b.ID)
	return b, err
}

// ListByUser returns a user's bookings newest first, optionally filtered by
// booking status.
func (r BookingRepo) ListByUser(userID int64, status string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND booking_status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBookingRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Passengers, err = r.passengers(out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CancelTx flips the booking into its terminal cancelled state. The seat
// restore runs in the same transaction via ScheduleRepo.RestoreSeats.
func (r BookingRepo) CancelTx(tx *sql.Tx, id int64, cancelledAt time.Time, reason, paymentStatus string) error {
	_, err := tx.Exec(`
		UPDATE bookings
		SET booking_status = ?, cancelled_at = ?, cancellation_reason = ?, payment_status = ?
		WHERE id = ?`,
		models.BookingCancelled, cancelledAt, reason, paymentStatus, id,
	)
	return err
}

func (r BookingRepo) UpdatePaymentStatus(id int64, paymentStatus string) error {
	_, err := r.DB.Exec(`UPDATE bookings SET payment_status = ? WHERE id = ?`, paymentStatus, id)
	return err
}

// PopularRoutes aggregates non-cancelled bookings created after `since`,
// grouped by endpoints, busiest first.
func (r BookingRepo) PopularRoutes(limit int, since time.Time) ([]models.PopularRoute, error) {
	rows, err := r.DB.Query(`
		SELECT route_from, route_to, COUNT(*) AS cnt, MIN(total_amount)
		FROM bookings
		WHERE booking_status <> ? AND created_at >= ?
		GROUP BY route_from, route_to
		ORDER BY cnt DESC
		LIMIT ?`,
		models.BookingCancelled, since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PopularRoute{}
	for rows.Next() {
		var p models.PopularRoute
		if err := rows.Scan(&p.From, &p.To, &p.Count, &p.MinPrice); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
