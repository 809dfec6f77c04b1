package models

import (
	"strings"
	"time"
)

const (
	ScheduleScheduled  = "Scheduled"
	ScheduleInProgress = "In Progress"
	ScheduleCompleted  = "Completed"
	ScheduleCancelled  = "Cancelled"
)

// RouteDelimiter joins the two endpoints of a route string ("Mumbai - Pune").
const RouteDelimiter = " - "

type BusSchedule struct {
	ID             int64     `json:"id"`
	BusNumber      string    `json:"busNumber"`
	Route          string    `json:"route"`
	Date           time.Time `json:"date"`
	Departure      string    `json:"departure"`
	Arrival        string    `json:"arrival"`
	Driver         string    `json:"driver"`
	Fare           float64   `json:"fare"`
	Status         string    `json:"status"`
	AvailableSeats int       `json:"availableSeats"`
	TotalSeats     int       `json:"totalSeats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ValidScheduleStatus(s string) bool {
	switch s {
	case ScheduleScheduled, ScheduleInProgress, ScheduleCompleted, ScheduleCancelled:
		return true
	}
	return false
}

// SplitRoute splits a "From - To" route string. When the delimiter is absent
// both endpoints collapse to the full route string; callers rely on that.
func SplitRoute(route string) (from, to string) {
	parts := strings.SplitN(route, RouteDelimiter, 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return route, route
}
