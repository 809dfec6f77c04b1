package repositories

import (
	"database/sql"
	"time"

	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

type DriverRepo struct {
	DB *sql.DB
}

const driverColumns = `id, full_name, license_number, license_expiry, contact_number, address,
	date_of_birth, emergency_name, emergency_phone, emergency_relationship,
	experience, salary, join_date, assigned_bus, availability_status, previous_status,
	is_active, license_expiry_warning, last_status_update, profile_photo, created_at, updated_at`

func scanDriverRow(scan func(dest ...any) error) (models.Driver, error) {
	var d models.Driver
	var dob sql.NullTime
	err := scan(
		&d.ID,
		&d.FullName,
		&d.LicenseNumber,
		&d.LicenseExpiry,
		&d.ContactNumber,
		&d.Address,
		&dob,
		&d.EmergencyContact.Name,
		&d.EmergencyContact.Phone,
		&d.EmergencyContact.Relationship,
		&d.Experience,
		&d.Salary,
		&d.JoinDate,
		&d.AssignedBus,
		&d.AvailabilityStatus,
		&d.PreviousStatus,
		&d.IsActive,
		&d.LicenseExpiryWarning,
		&d.LastStatusUpdate,
		&d.ProfilePhoto,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return models.Driver{}, err
	}
	d.DateOfBirth = intdb.TimePtr(dob)
	return d, nil
}

func (r DriverRepo) queryDrivers(query string, args ...any) ([]models.Driver, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		d, err := scanDriverRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DriverRepo) List() ([]models.Driver, error) {
	return r.queryDrivers(`SELECT ` + driverColumns + ` FROM drivers ORDER BY full_name ASC`)
}

func (r DriverRepo) GetByID(id int64) (models.Driver, error) {
	row := r.DB.QueryRow(`SELECT `+driverColumns+` FROM drivers WHERE id = ? LIMIT 1`, id)
	return scanDriverRow(row.Scan)
}

func (r DriverRepo) ListByStatus(status string) ([]models.Driver, error) {
	return r.queryDrivers(`SELECT `+driverColumns+` FROM drivers WHERE availability_status = ?`, status)
}

// ListAvailable returns drivers free for assignment (available and not on a bus).
func (r DriverRepo) ListAvailable() ([]models.Driver, error) {
	return r.queryDrivers(`SELECT `+driverColumns+` FROM drivers
		WHERE availability_status = ? AND assigned_bus = ''`, models.DriverAvailable)
}

// ListExpiring returns drivers whose license expires on or before the cutoff.
func (r DriverRepo) ListExpiring(cutoff time.Time) ([]models.Driver, error) {
	return r.queryDrivers(`SELECT `+driverColumns+` FROM drivers WHERE license_expiry <= ?`, cutoff)
}

// ListExpired returns still-active drivers whose license has already lapsed.
func (r DriverRepo) ListExpired(now time.Time) ([]models.Driver, error) {
	return r.queryDrivers(`SELECT `+driverColumns+` FROM drivers
		WHERE license_expiry <= ? AND is_active = 1`, now)
}

// LicenseExists probes license-number uniqueness, excluding the given id on
// updates (zero means no exclusion).
func (r DriverRepo) LicenseExists(licenseNumber string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM drivers WHERE license_number = ? AND id <> ?`,
		licenseNumber, excludeID).Scan(&n)
	return n > 0, err
}

func (r DriverRepo) ContactExists(contactNumber string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM drivers WHERE contact_number = ? AND id <> ?`,
		contactNumber, excludeID).Scan(&n)
	return n > 0, err
}

func (r DriverRepo) ExistingContacts() ([]string, error) {
	rows, err := r.DB.Query(`SELECT contact_number FROM drivers ORDER BY contact_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r DriverRepo) Create(d models.Driver) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO drivers (full_name, license_number, license_expiry, contact_number, address,
			date_of_birth, emergency_name, emergency_phone, emergency_relationship,
			experience, salary, join_date, assigned_bus, availability_status, previous_status,
			is_active, license_expiry_warning, last_status_update, profile_photo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.FullName, d.LicenseNumber, d.LicenseExpiry, d.ContactNumber, d.Address,
		intdb.NullTime(d.DateOfBirth), d.EmergencyContact.Name, d.EmergencyContact.Phone,
		d.EmergencyContact.Relationship, d.Experience, d.Salary, d.JoinDate, d.AssignedBus,
		d.AvailabilityStatus, d.PreviousStatus, d.IsActive, d.LicenseExpiryWarning,
		d.LastStatusUpdate, d.ProfilePhoto,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r DriverRepo) Update(d models.Driver) error {
	_, err := r.DB.Exec(`
		UPDATE drivers
		SET full_name = ?, license_number = ?, license_expiry = ?, contact_number = ?, address = ?,
			date_of_birth = ?, emergency_name = ?, emergency_phone = ?, emergency_relationship = ?,
			experience = ?, salary = ?, assigned_bus = ?, availability_status = ?, previous_status = ?,
			is_active = ?, license_expiry_warning = ?, last_status_update = ?, profile_photo = ?
		WHERE id = ?`,
		d.FullName, d.LicenseNumber, d.LicenseExpiry, d.ContactNumber, d.Address,
		intdb.NullTime(d.DateOfBirth), d.EmergencyContact.Name, d.EmergencyContact.Phone,
		d.EmergencyContact.Relationship, d.Experience, d.Salary, d.AssignedBus,
		d.AvailabilityStatus, d.PreviousStatus, d.IsActive, d.LicenseExpiryWarning,
		d.LastStatusUpdate, d.ProfilePhoto, d.ID,
	)
	return err
}

func (r DriverRepo) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r DriverRepo) UpdatePhoto(id int64, photo string) error {
	_, err := r.DB.Exec(`UPDATE drivers SET profile_photo = ? WHERE id = ?`, photo, id)
	return err
}

// DriverStats aggregates driver counts for the dashboard endpoint.
type DriverStats struct {
	Total            int `json:"totalDrivers"`
	Available        int `json:"availableDrivers"`
	Busy             int `json:"busyDrivers"`
	OnLeave          int `json:"onLeaveDrivers"`
	Suspended        int `json:"suspendedDrivers"`
	ExpiringLicenses int `json:"expiringLicenses"`
}

func (r DriverRepo) Stats(cutoff time.Time) (DriverStats, error) {
	var s DriverStats
	err := r.DB.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(availability_status = 'Available'), 0),
			COALESCE(SUM(availability_status = 'Busy'), 0),
			COALESCE(SUM(availability_status = 'On Leave'), 0),
			COALESCE(SUM(availability_status = 'Suspended'), 0),
			COALESCE(SUM(license_expiry <= ?), 0)
		FROM drivers`, cutoff).Scan(
		&s.Total, &s.Available, &s.Busy, &s.OnLeave, &s.Suspended, &s.ExpiringLicenses,
	)
	return s, err
}
