package models

import "time"

const (
	BusStatusActive      = "Active"
	BusStatusInactive    = "Inactive"
	BusStatusMaintenance = "Maintenance"
)

var BusTypes = []string{"AC", "Non-AC", "Sleeper", "Seater"}

type Bus struct {
	ID                 int64     `json:"id"`
	BusNumber          string    `json:"busNumber"`
	RegistrationNumber string    `json:"registrationNumber"`
	Capacity           int       `json:"capacity"`
	BusType            string    `json:"busType"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func ValidBusType(t string) bool {
	for _, v := range BusTypes {
		if v == t {
			return true
		}
	}
	return false
}
