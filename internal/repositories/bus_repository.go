package repositories

import (
	"database/sql"

	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

type BusRepo struct {
	DB *sql.DB
}

const busColumns = `id, bus_number, registration_number, capacity, bus_type, status, created_at, updated_at`

func scanBusRow(scan func(dest ...any) error) (models.Bus, error) {
	var b models.Bus
	err := scan(
		&b.ID,
		&b.BusNumber,
		&b.RegistrationNumber,
		&b.Capacity,
		&b.BusType,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r BusRepo) List() ([]models.Bus, error) {
	rows, err := r.DB.Query(`SELECT ` + busColumns + ` FROM buses ORDER BY bus_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBusRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BusRepo) GetByID(id int64) (models.Bus, error) {
	row := r.DB.QueryRow(`SELECT `+busColumns+` FROM buses WHERE id = ? LIMIT 1`, id)
	return scanBusRow(row.Scan)
}

func (r BusRepo) GetByNumber(busNumber string) (models.Bus, error) {
	row := r.DB.QueryRow(`SELECT `+busColumns+` FROM buses WHERE bus_number = ? LIMIT 1`, busNumber)
	return scanBusRow(row.Scan)
}

func (r BusRepo) Create(b models.Bus) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO buses (bus_number, registration_number, capacity, bus_type, status)
		VALUES (?, ?, ?, ?, ?)`,
		b.BusNumber, b.RegistrationNumber, b.Capacity, b.BusType, b.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BusRepo) Update(b models.Bus) error {
	_, err := r.DB.Exec(`
		UPDATE buses
		SET bus_number = ?, registration_number = ?, capacity = ?, bus_type = ?, status = ?
		WHERE id = ?`,
		b.BusNumber, b.RegistrationNumber, b.Capacity, b.BusType, b.Status, b.ID,
	)
	return err
}

func (r BusRepo) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
