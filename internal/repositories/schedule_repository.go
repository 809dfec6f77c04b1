package repositories

import (
	"database/sql"
	"time"

	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

type ScheduleRepo struct {
	DB *sql.DB
}

const scheduleColumns = `id, bus_number, route, date, departure, arrival, driver, fare, status,
	available_seats, total_seats, created_at, updated_at`

func scanScheduleRow(scan func(dest ...any) error) (models.BusSchedule, error) {
	var s models.BusSchedule
	err := scan(
		&s.ID,
		&s.BusNumber,
		&s.Route,
		&s.Date,
		&s.Departure,
		&s.Arrival,
		&s.Driver,
		&s.Fare,
		&s.Status,
		&s.AvailableSeats,
		&s.TotalSeats,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r ScheduleRepo) querySchedules(query string, args ...any) ([]models.BusSchedule, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BusSchedule{}
	for rows.Next() {
		s, err := scanScheduleRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ScheduleRepo) List() ([]models.BusSchedule, error) {
	return r.querySchedules(`SELECT ` + scheduleColumns + ` FROM bus_schedules ORDER BY date ASC, departure ASC`)
}

func (r ScheduleRepo) GetByID(id int64) (models.BusSchedule, error) {
	row := r.DB.QueryRow(`SELECT `+scheduleColumns+` FROM bus_schedules WHERE id = ? LIMIT 1`, id)
	return scanScheduleRow(row.Scan)
}

func (r ScheduleRepo) ListByBus(busNumber string) ([]models.BusSchedule, error) {
	return r.querySchedules(`SELECT `+scheduleColumns+` FROM bus_schedules WHERE bus_number = ?`, busNumber)
}

func (r ScheduleRepo) ListByRoute(route string) ([]models.BusSchedule, error) {
	return r.querySchedules(`SELECT `+scheduleColumns+` FROM bus_schedules WHERE route = ?`, route)
}

// Search matches the route string in either endpoint order within a calendar
// day, skipping cancelled or fully booked departures. Matching is
// case-insensitive through the column collation.
func (r ScheduleRepo) Search(from, to string, dayStart, dayEnd time.Time) ([]models.BusSchedule, error) {
	return r.querySchedules(`
		SELECT `+scheduleColumns+` FROM bus_schedules
		WHERE (route LIKE CONCAT('%', ?, '%', ?, '%') OR route LIKE CONCAT('%', ?, '%', ?, '%'))
		  AND date >= ? AND date < ?
		  AND status <> ?
		  AND available_seats > 0
		ORDER BY departure ASC`,
		from, to, to, from, dayStart, dayEnd, models.ScheduleCancelled,
	)
}

// ListAvailable returns upcoming bookable departures.
func (r ScheduleRepo) ListAvailable(now time.Time) ([]models.BusSchedule, error) {
	return r.querySchedules(`
		SELECT `+scheduleColumns+` FROM bus_schedules
		WHERE date >= ? AND status <> ? AND available_seats > 0
		ORDER BY date ASC, departure ASC`,
		now, models.ScheduleCancelled,
	)
}

func (r ScheduleRepo) Create(s models.BusSchedule) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO bus_schedules (bus_number, route, date, departure, arrival, driver, fare, status,
			available_seats, total_seats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.BusNumber, s.Route, s.Date, s.Departure, s.Arrival, s.Driver, s.Fare, s.Status,
		s.AvailableSeats, s.TotalSeats,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ScheduleRepo) Update(s models.BusSchedule) error {
	_, err := r.DB.Exec(`
		UPDATE bus_schedules
		SET bus_number = ?, route = ?, date = ?, departure = ?, arrival = ?, driver = ?, fare = ?,
			status = ?, available_seats = ?, total_seats = ?
		WHERE id = ?`,
		s.BusNumber, s.Route, s.Date, s.Departure, s.Arrival, s.Driver, s.Fare,
		s.Status, s.AvailableSeats, s.TotalSeats, s.ID,
	)
	return err
}

func (r ScheduleRepo) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM bus_schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ReserveSeats decrements availability atomically; the guard makes the
// check-then-decrement race impossible. Returns false when not enough seats
// remain.
func (r ScheduleRepo) ReserveSeats(tx *sql.Tx, scheduleID int64, count int) (bool, error) {
	res, err := tx.Exec(`
		UPDATE bus_schedules
		SET available_seats = available_seats - ?
		WHERE id = ? AND available_seats >= ?`,
		count, scheduleID, count,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RestoreSeats returns cancelled seats to the pool, capped at total_seats.
func (r ScheduleRepo) RestoreSeats(tx *sql.Tx, scheduleID int64, count int) error {
	_, err := tx.Exec(`
		UPDATE bus_schedules
		SET available_seats = LEAST(available_seats + ?, total_seats)
		WHERE id = ?`,
		count, scheduleID,
	)
	return err
}
