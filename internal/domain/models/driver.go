package models

import "time"

const (
	DriverAvailable = "Available"
	DriverBusy      = "Busy"
	DriverOnLeave   = "On Leave"
	DriverSuspended = "Suspended"
	DriverInactive  = "Inactive"
)

// DefaultDriverPhoto is what a driver starts with until a real photo is
// uploaded; it is never deleted on replacement.
const DefaultDriverPhoto = "https://i.pravatar.cc/150"

var DriverStatuses = []string{
	DriverAvailable,
	DriverBusy,
	DriverOnLeave,
	DriverSuspended,
	DriverInactive,
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Driver struct {
	ID                   int64            `json:"id"`
	FullName             string           `json:"fullName"`
	LicenseNumber        string           `json:"licenseNumber"`
	LicenseExpiry        time.Time        `json:"licenseExpiry"`
	ContactNumber        string           `json:"contactNumber"`
	Address              string           `json:"address"`
	DateOfBirth          *time.Time       `json:"dateOfBirth,omitempty"`
	EmergencyContact     EmergencyContact `json:"emergencyContact"`
	Experience           int              `json:"experience"`
	Salary               float64          `json:"salary"`
	JoinDate             time.Time        `json:"joinDate"`
	AssignedBus          string           `json:"assignedBus"`
	AvailabilityStatus   string           `json:"availabilityStatus"`
	PreviousStatus       string           `json:"previousStatus"`
	IsActive             bool             `json:"isActive"`
	LicenseExpiryWarning bool             `json:"licenseExpiryWarning"`
	LastStatusUpdate     time.Time        `json:"lastStatusUpdate"`
	ProfilePhoto         string           `json:"profilePhoto"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func ValidDriverStatus(s string) bool {
	for _, v := range DriverStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// LicenseExpired reports whether the license is expired at the given instant.
func (d Driver) LicenseExpired(now time.Time) bool {
	return !d.LicenseExpiry.After(now)
}

// LicenseExpiringSoon reports whether the license expires within 30 days but
// is still valid.
func (d Driver) LicenseExpiringSoon(now time.Time) bool {
	return d.LicenseExpiry.After(now) && !d.LicenseExpiry.After(now.AddDate(0, 0, 30))
}
