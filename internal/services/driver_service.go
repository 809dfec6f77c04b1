package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

// licensePattern: state code + RTO code + series + number, e.g. GJ07DL8932.
var (
	licensePattern = regexp.MustCompile(`^[A-Z0-9]{10,16}$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
)

// expiryWarningWindow is how far ahead of expiry the warning flag turns on.
const expiryWarningWindow = 30 // days

type DriverService struct {
	DriverRepo repositories.DriverRepo
	DB         *sql.DB
	RequestID  string
	Now        func() time.Time
}

func (s DriverService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DriverService) drivers() repositories.DriverRepo {
	if s.DriverRepo.DB != nil {
		return s.DriverRepo
	}
	return repositories.DriverRepo{DB: s.db()}
}

func (s DriverService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DeriveStatus applies the license lifecycle rules to a driver and reports
// whether anything changed. Expired licenses force Inactive (stashing the
// prior status for restoration), a renewed license restores the stashed
// status, and the warning flag tracks the 30-day window. The function is
// pure so every mutation entry point and the bulk sweep share one rule.
func DeriveStatus(d models.Driver, now time.Time) (models.Driver, bool) {
	changed := false

	if d.LicenseExpired(now) {
		if d.AvailabilityStatus != models.DriverInactive {
			d.PreviousStatus = d.AvailabilityStatus
			d.AvailabilityStatus = models.DriverInactive
			d.IsActive = false
			d.LastStatusUpdate = now
			changed = true
		}
	} else if d.AvailabilityStatus == models.DriverInactive &&
		d.PreviousStatus != "" && d.PreviousStatus != models.DriverInactive {
		d.AvailabilityStatus = d.PreviousStatus
		d.IsActive = true
		d.LicenseExpiryWarning = false
		d.LastStatusUpdate = now
		changed = true
	}

	warning := d.LicenseExpiringSoon(now)
	if warning != d.LicenseExpiryWarning {
		d.LicenseExpiryWarning = warning
		changed = true
	}

	return d, changed
}

func (s DriverService) validate(d models.Driver, excludeID int64) error {
	if len(d.FullName) < 2 || len(d.FullName) > 100 {
		return domain.ValidationError{Field: "fullName", Msg: "must be between 2 and 100 characters"}
	}
	if !licensePattern.MatchString(d.LicenseNumber) {
		return domain.ValidationError{
			Field: "licenseNumber",
			Msg:   "must be 10-16 characters, only uppercase letters and digits (e.g., GJ07DL8932)",
		}
	}
	if !phonePattern.MatchString(d.ContactNumber) {
		return domain.ValidationError{Field: "contactNumber", Msg: "must be exactly 10 digits"}
	}
	if len(d.Address) < 10 {
		return domain.ValidationError{Field: "address", Msg: "must be at least 10 characters long"}
	}
	if d.LicenseExpiry.IsZero() {
		return domain.ValidationError{Field: "licenseExpiry", Msg: "License Expiry Date is required"}
	}
	if d.EmergencyContact.Phone != "" && !phonePattern.MatchString(d.EmergencyContact.Phone) {
		return domain.ValidationError{Field: "emergencyContact.phone", Msg: "must be exactly 10 digits"}
	}
	if d.DateOfBirth != nil {
		age := s.now().Sub(*d.DateOfBirth).Hours() / (365.25 * 24)
		if age < 18 {
			return domain.ValidationError{Field: "dateOfBirth", Msg: "driver must be at least 18 years old"}
		}
	}
	if d.Experience < 0 {
		return domain.ValidationError{Field: "experience", Msg: "cannot be negative"}
	}
	if d.Salary < 0 {
		return domain.ValidationError{Field: "salary", Msg: "cannot be negative"}
	}
	if d.AvailabilityStatus != "" && !models.ValidDriverStatus(d.AvailabilityStatus) {
		return domain.ValidationError{Field: "availabilityStatus", Msg: "must be Available, Busy, On Leave, Suspended, or Inactive"}
	}

	taken, err := s.drivers().LicenseExists(d.LicenseNumber, excludeID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if taken {
		return domain.ValidationError{Field: "licenseNumber", Msg: "driver with this license number already exists"}
	}
	taken, err = s.drivers().ContactExists(d.ContactNumber, excludeID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if taken {
		return domain.ValidationError{Field: "contactNumber", Msg: "driver with this contact number already exists"}
	}
	return nil
}

// Create validates and persists a new driver, running status derivation
// first so an already-expiring license lands in the right state.
func (s DriverService) Create(d models.Driver) (models.Driver, error) {
	now := s.now()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !d.LicenseExpiry.IsZero() && d.LicenseExpiry.Before(today) {
		return models.Driver{}, domain.ValidationError{Field: "licenseExpiry", Msg: "License Expiry Date must be today or a future date"}
	}

	if d.AvailabilityStatus == "" {
		d.AvailabilityStatus = models.DriverAvailable
	}
	if d.PreviousStatus == "" {
		d.PreviousStatus = models.DriverAvailable
	}
	if d.ProfilePhoto == "" {
		d.ProfilePhoto = models.DefaultDriverPhoto
	}
	if d.JoinDate.IsZero() {
		d.JoinDate = now
	}
	d.IsActive = true
	d.LastStatusUpdate = now

	if err := s.validate(d, 0); err != nil {
		return models.Driver{}, err
	}

	d, _ = DeriveStatus(d, now)

	id, err := s.drivers().Create(d)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.Driver{}, domain.ValidationError{Field: "driver", Msg: "duplicate license or contact number", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}
	d.ID = id

	utils.LogEvent(s.RequestID, "driver", "create", "driver_id="+strconv.FormatInt(id, 10))
	return d, nil
}

// Update merges the incoming fields over the stored driver and re-derives
// the lifecycle status before persisting.
func (s DriverService) Update(id int64, d models.Driver) (models.Driver, error) {
	existing, err := s.drivers().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}

	d.ID = id
	d.JoinDate = existing.JoinDate
	d.ProfilePhoto = utils.FirstNonEmpty(d.ProfilePhoto, existing.ProfilePhoto)
	if d.AvailabilityStatus == "" {
		d.AvailabilityStatus = existing.AvailabilityStatus
	}
	if d.PreviousStatus == "" {
		d.PreviousStatus = existing.PreviousStatus
	}
	if d.AssignedBus == "" {
		d.AssignedBus = existing.AssignedBus
	}
	d.IsActive = existing.IsActive
	d.LicenseExpiryWarning = existing.LicenseExpiryWarning
	d.LastStatusUpdate = existing.LastStatusUpdate

	if err := s.validate(d, id); err != nil {
		return models.Driver{}, err
	}

	d, _ = DeriveStatus(d, s.now())

	if err := s.drivers().Update(d); err != nil {
		if intdb.IsDuplicate(err) {
			return models.Driver{}, domain.ValidationError{Field: "driver", Msg: "duplicate license or contact number", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "driver", "update", "driver_id="+strconv.FormatInt(id, 10))
	return d, nil
}

// BulkReconcile sweeps every driver through the lifecycle rules. Repeated
// runs converge: once state matches the license dates nothing changes.
func (s DriverService) BulkReconcile() (deactivated, restored int, err error) {
	drivers, err := s.drivers().List()
	if err != nil {
		return 0, 0, domain.InternalError{Err: err}
	}

	now := s.now()
	for _, d := range drivers {
		next, changed := DeriveStatus(d, now)
		if !changed {
			continue
		}
		if err := s.drivers().Update(next); err != nil {
			return deactivated, restored, domain.InternalError{Err: err}
		}
		switch {
		case d.AvailabilityStatus != models.DriverInactive && next.AvailabilityStatus == models.DriverInactive:
			deactivated++
		case d.AvailabilityStatus == models.DriverInactive && next.AvailabilityStatus != models.DriverInactive:
			restored++
		}
	}

	utils.LogEvent(s.RequestID, "driver", "bulk_reconcile",
		fmt.Sprintf("deactivated=%d restored=%d", deactivated, restored))
	return deactivated, restored, nil
}

// Assign puts an Available driver on a bus.
func (s DriverService) Assign(driverID int64, busNumber string) (models.Driver, error) {
	d, err := s.drivers().GetByID(driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}

	if d.AvailabilityStatus != models.DriverAvailable {
		return models.Driver{}, domain.ConflictError{Resource: "driver", Msg: "driver is not available for assignment"}
	}

	d.AssignedBus = busNumber
	d.AvailabilityStatus = models.DriverBusy
	d.LastStatusUpdate = s.now()

	if err := s.drivers().Update(d); err != nil {
		return models.Driver{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "driver", "assign",
		fmt.Sprintf("driver_id=%d bus=%s", driverID, busNumber))
	return d, nil
}

// Unassign frees the driver and forces status back to Available without
// consulting previousStatus or the license. An expired license therefore
// yields an Available driver until the next write or sweep flips it back;
// this mirrors the long-standing behavior the callers expect.
func (s DriverService) Unassign(driverID int64) (models.Driver, error) {
	d, err := s.drivers().GetByID(driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}

	d.AssignedBus = ""
	d.AvailabilityStatus = models.DriverAvailable
	d.LastStatusUpdate = s.now()

	if err := s.drivers().Update(d); err != nil {
		return models.Driver{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "driver", "unassign", "driver_id="+strconv.FormatInt(driverID, 10))
	return d, nil
}

// Reactivate renews the license and brings the driver back as Available.
func (s DriverService) Reactivate(driverID int64, newExpiry time.Time) (models.Driver, error) {
	if !newExpiry.After(s.now()) {
		return models.Driver{}, domain.ValidationError{Field: "licenseExpiry", Msg: "new expiry date must be in the future"}
	}

	d, err := s.drivers().GetByID(driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}

	now := s.now()
	d.LicenseExpiry = newExpiry
	d.AvailabilityStatus = models.DriverAvailable
	d.IsActive = true
	d.LicenseExpiryWarning = false
	d.LastStatusUpdate = now

	d, _ = DeriveStatus(d, now)

	if err := s.drivers().Update(d); err != nil {
		return models.Driver{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "driver", "reactivate", "driver_id="+strconv.FormatInt(driverID, 10))
	return d, nil
}

func (s DriverService) Get(id int64) (models.Driver, error) {
	d, err := s.drivers().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver", Err: err}
		}
		return models.Driver{}, domain.InternalError{Err: err}
	}
	return d, nil
}

func (s DriverService) Delete(id int64) error {
	if err := s.drivers().Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "driver", Err: err}
		}
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "driver", "delete", "driver_id="+strconv.FormatInt(id, 10))
	return nil
}

func (s DriverService) List() ([]models.Driver, error) {
	return s.wrapList(s.drivers().List())
}

func (s DriverService) ListByStatus(status string) ([]models.Driver, error) {
	if !models.ValidDriverStatus(status) {
		return nil, domain.ValidationError{Field: "status", Msg: "unknown availability status"}
	}
	return s.wrapList(s.drivers().ListByStatus(status))
}

func (s DriverService) ListAvailable() ([]models.Driver, error) {
	return s.wrapList(s.drivers().ListAvailable())
}

// ExpiringLicenses lists drivers whose license expires within 30 days.
func (s DriverService) ExpiringLicenses() ([]models.Driver, error) {
	cutoff := s.now().AddDate(0, 0, expiryWarningWindow)
	return s.wrapList(s.drivers().ListExpiring(cutoff))
}

func (s DriverService) Expired() ([]models.Driver, error) {
	return s.wrapList(s.drivers().ListExpired(s.now()))
}

func (s DriverService) Stats() (repositories.DriverStats, error) {
	stats, err := s.drivers().Stats(s.now().AddDate(0, 0, expiryWarningWindow))
	if err != nil {
		return repositories.DriverStats{}, domain.InternalError{Err: err}
	}
	return stats, nil
}

func (s DriverService) ExistingContacts() ([]string, error) {
	contacts, err := s.drivers().ExistingContacts()
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return contacts, nil
}

func (s DriverService) wrapList(drivers []models.Driver, err error) ([]models.Driver, error) {
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return drivers, nil
}
