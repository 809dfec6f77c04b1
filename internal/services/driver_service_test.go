package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
)

var driverTestNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestDeriveStatusExpiryForcesInactive(t *testing.T) {
	d := models.Driver{
		AvailabilityStatus: models.DriverBusy,
		IsActive:           true,
		LicenseExpiry:      driverTestNow.AddDate(0, 0, -1),
	}

	next, changed := DeriveStatus(d, driverTestNow)
	if !changed {
		t.Fatal("expected a status change")
	}
	if next.AvailabilityStatus != models.DriverInactive {
		t.Fatalf("status = %q, want Inactive", next.AvailabilityStatus)
	}
	if next.PreviousStatus != models.DriverBusy {
		t.Fatalf("previousStatus = %q, want Busy", next.PreviousStatus)
	}
	if next.IsActive {
		t.Fatal("driver should be deactivated")
	}
}

func TestDeriveStatusRenewalRestoresPrevious(t *testing.T) {
	d := models.Driver{
		AvailabilityStatus:   models.DriverInactive,
		PreviousStatus:       models.DriverOnLeave,
		IsActive:             false,
		LicenseExpiryWarning: true,
		LicenseExpiry:        driverTestNow.AddDate(1, 0, 0),
	}

	next, changed := DeriveStatus(d, driverTestNow)
	if !changed {
		t.Fatal("expected a status change")
	}
	if next.AvailabilityStatus != models.DriverOnLeave {
		t.Fatalf("status = %q, want On Leave", next.AvailabilityStatus)
	}
	if !next.IsActive {
		t.Fatal("driver should be active again")
	}
	if next.LicenseExpiryWarning {
		t.Fatal("warning flag should clear on renewal")
	}
}

func TestDeriveStatusWarningWindow(t *testing.T) {
	cases := []struct {
		name    string
		expiry  time.Time
		warning bool
	}{
		{"expires in 10 days", driverTestNow.AddDate(0, 0, 10), true},
		{"expires in exactly 30 days", driverTestNow.AddDate(0, 0, 30), true},
		{"expires in 31 days", driverTestNow.AddDate(0, 0, 31), false},
		{"expires in a year", driverTestNow.AddDate(1, 0, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := models.Driver{
				AvailabilityStatus: models.DriverAvailable,
				IsActive:           true,
				LicenseExpiry:      tc.expiry,
			}
			next, _ := DeriveStatus(d, driverTestNow)
			if next.LicenseExpiryWarning != tc.warning {
				t.Fatalf("warning = %v, want %v", next.LicenseExpiryWarning, tc.warning)
			}
		})
	}
}

func TestDeriveStatusIdempotent(t *testing.T) {
	d := models.Driver{
		AvailabilityStatus: models.DriverAvailable,
		IsActive:           true,
		LicenseExpiry:      driverTestNow.AddDate(0, 0, 20),
	}

	first, changed := DeriveStatus(d, driverTestNow)
	if !changed {
		t.Fatal("first pass should flag the warning")
	}
	second, changed := DeriveStatus(first, driverTestNow)
	if changed {
		t.Fatal("second pass should be a no-op")
	}
	if second != first {
		t.Fatal("second pass altered the driver")
	}
}

func TestDeriveStatusExpiredInactiveStaysPut(t *testing.T) {
	// Inactive with a stashed status but the license is still expired:
	// nothing to restore yet.
	d := models.Driver{
		AvailabilityStatus: models.DriverInactive,
		PreviousStatus:     models.DriverAvailable,
		IsActive:           false,
		LicenseExpiry:      driverTestNow.AddDate(0, 0, -5),
	}
	next, changed := DeriveStatus(d, driverTestNow)
	if changed {
		t.Fatal("expected no change")
	}
	if next.AvailabilityStatus != models.DriverInactive {
		t.Fatalf("status = %q, want Inactive", next.AvailabilityStatus)
	}
}

func driverRows(status, previous, assignedBus string, expiry time.Time) *sqlmock.Rows {
	cols := []string{
		"id", "full_name", "license_number", "license_expiry", "contact_number", "address",
		"date_of_birth", "emergency_name", "emergency_phone", "emergency_relationship",
		"experience", "salary", "join_date", "assigned_bus", "availability_status", "previous_status",
		"is_active", "license_expiry_warning", "last_status_update", "profile_photo", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		int64(7), "Ravi Kumar", "GJ07DL893201", expiry, "9876543210", "14 Station Road, Ahmedabad",
		nil, "Meera Kumar", "9123456780", "spouse",
		5, 32000.0, driverTestNow.AddDate(-2, 0, 0), assignedBus, status, previous,
		true, false, driverTestNow.AddDate(0, 0, -1), models.DefaultDriverPhoto, driverTestNow, driverTestNow,
	)
}

func TestUnassignForcesAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// License already expired, yet unassign still lands on Available.
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(driverRows(models.DriverBusy, models.DriverAvailable, "MH12AB1234", driverTestNow.AddDate(0, 0, -3)))
	mock.ExpectExec("UPDATE drivers").
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := DriverService{
		DriverRepo: repositories.DriverRepo{DB: db},
		DB:         db,
		Now:        func() time.Time { return driverTestNow },
	}

	d, err := svc.Unassign(7)
	if err != nil {
		t.Fatalf("unassign error: %v", err)
	}
	if d.AvailabilityStatus != models.DriverAvailable {
		t.Fatalf("status = %q, want Available", d.AvailabilityStatus)
	}
	if d.AssignedBus != "" {
		t.Fatalf("assignedBus = %q, want empty", d.AssignedBus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignRejectsUnavailableDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(driverRows(models.DriverOnLeave, models.DriverAvailable, "", driverTestNow.AddDate(1, 0, 0)))

	svc := DriverService{
		DriverRepo: repositories.DriverRepo{DB: db},
		DB:         db,
		Now:        func() time.Time { return driverTestNow },
	}

	_, err = svc.Assign(7, "MH12AB1234")
	if !domain.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReactivateRejectsPastExpiry(t *testing.T) {
	svc := DriverService{Now: func() time.Time { return driverTestNow }}

	_, err := svc.Reactivate(7, driverTestNow.AddDate(0, 0, -1))
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateRejectsMalformedLicense(t *testing.T) {
	svc := DriverService{Now: func() time.Time { return driverTestNow }}

	_, err := svc.Create(models.Driver{
		FullName:      "Ravi Kumar",
		LicenseNumber: "gj07dl",
		LicenseExpiry: driverTestNow.AddDate(1, 0, 0),
		ContactNumber: "9876543210",
		Address:       "14 Station Road, Ahmedabad",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestBulkReconcileConverges(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// First sweep: one expired Busy driver gets deactivated.
	mock.ExpectQuery("SELECT (.+) FROM drivers ORDER BY full_name").
		WillReturnRows(driverRows(models.DriverBusy, models.DriverAvailable, "MH12AB1234", driverTestNow.AddDate(0, 0, -3)))
	mock.ExpectExec("UPDATE drivers").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Second sweep over the converged state: nothing to do.
	mock.ExpectQuery("SELECT (.+) FROM drivers ORDER BY full_name").
		WillReturnRows(driverRows(models.DriverInactive, models.DriverBusy, "MH12AB1234", driverTestNow.AddDate(0, 0, -3)))

	svc := DriverService{
		DriverRepo: repositories.DriverRepo{DB: db},
		DB:         db,
		Now:        func() time.Time { return driverTestNow },
	}

	deactivated, restored, err := svc.BulkReconcile()
	if err != nil {
		t.Fatalf("first sweep error: %v", err)
	}
	if deactivated != 1 || restored != 0 {
		t.Fatalf("first sweep = (%d, %d), want (1, 0)", deactivated, restored)
	}

	deactivated, restored, err = svc.BulkReconcile()
	if err != nil {
		t.Fatalf("second sweep error: %v", err)
	}
	if deactivated != 0 || restored != 0 {
		t.Fatalf("second sweep = (%d, %d), want (0, 0)", deactivated, restored)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
