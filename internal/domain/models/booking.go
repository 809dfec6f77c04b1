package models

import "time"

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"

	BookingActive    = "Active"
	BookingCompleted = "Completed"
	BookingCancelled = "Cancelled"
)

var PaymentMethods = []string{"Cash", "Card", "Online", "Wallet"}

type Passenger struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	SeatNumber string `json:"seatNumber"`
}

type Booking struct {
	ID                 int64       `json:"id"`
	UserID             int64       `json:"user"`
	ScheduleID         int64       `json:"schedule"`
	BusID              int64       `json:"bus"`
	From               string      `json:"from"`
	To                 string      `json:"to"`
	TravelDate         time.Time   `json:"travelDate"`
	DepartureTime      string      `json:"departureTime"`
	ArrivalTime        string      `json:"arrivalTime"`
	Passengers         []Passenger `json:"passengers"`
	TotalAmount        float64     `json:"totalAmount"`
	PaymentStatus      string      `json:"paymentStatus"`
	PaymentMethod      string      `json:"paymentMethod"`
	BookingStatus      string      `json:"bookingStatus"`
	BookingReference   string      `json:"bookingReference"`
	ContactEmail       string      `json:"contactEmail"`
	ContactPhone       string      `json:"contactPhone"`
	CancelledAt        *time.Time  `json:"cancelledAt,omitempty"`
	CancellationReason string      `json:"cancellationReason"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

func ValidGender(g string) bool {
	switch g {
	case "Male", "Female", "Other":
		return true
	}
	return false
}

// Terminal reports whether the booking is past the point of cancellation.
func (b Booking) Terminal() bool {
	return b.BookingStatus == BookingCancelled || b.BookingStatus == BookingCompleted
}

// PopularRoute is one row of the popular-routes aggregation.
type PopularRoute struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Count    int     `json:"count"`
	MinPrice float64 `json:"minPrice"`
}
