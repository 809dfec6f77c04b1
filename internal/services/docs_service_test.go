package services

import (
	"strings"
	"testing"
	"time"

	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
)

func TestDocsServiceGenerateETicket(t *testing.T) {
	loader := func(bookingID, requesterID int64) (models.Booking, error) {
		return models.Booking{
			ID:               bookingID,
			UserID:           requesterID,
			BookingReference: "BK17650000000007",
			From:             "Mumbai",
			To:               "Pune",
			TravelDate:       time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC),
			DepartureTime:    "08:00",
			ArrivalTime:      "14:30",
			Passengers: []models.Passenger{
				{Name: "Asha Patel", Age: 31, Gender: "Female", SeatNumber: "A1"},
			},
			TotalAmount:   500,
			PaymentStatus: models.PaymentCompleted,
			PaymentMethod: "Online",
			BookingStatus: models.BookingActive,
			ContactEmail:  "rider@example.com",
			ContactPhone:  "9876543210",
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerateETicket(42, 9)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("GenerateETicket returned empty data")
	}
	if !strings.HasPrefix(string(pdf[:5]), "%PDF-") {
		t.Fatal("output is not a PDF")
	}
	if filename != "ETICKET_BK17650000000007.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}
