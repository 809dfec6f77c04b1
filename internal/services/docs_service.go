package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

// DocsService renders booking e-tickets as PDF.
type DocsService struct {
	BookingSvc BookingService
	DB         *sql.DB
	RequestID  string
	Loader     func(bookingID, requesterID int64) (models.Booking, error)
}

func (s DocsService) loadBooking(bookingID, requesterID int64) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(bookingID, requesterID)
	}
	svc := s.BookingSvc
	if svc.DB == nil {
		svc.DB = s.DB
		if svc.DB == nil {
			svc.DB = intconfig.DB
		}
	}
	svc.RequestID = s.RequestID
	return svc.GetByID(bookingID, requesterID)
}

// GenerateETicket renders the ticket for a booking the requester owns.
func (s DocsService) GenerateETicket(bookingID, requesterID int64) ([]byte, string, error) {
	booking, err := s.loadBooking(bookingID, requesterID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("booking_id=%d", bookingID))
	return buildETicketPDF(booking)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref   : %s", safe(b.BookingReference, "-")),
		fmt.Sprintf("Route         : %s -> %s", safe(b.From, "-"), safe(b.To, "-")),
		fmt.Sprintf("Travel Date   : %s", utils.FormatDate(b.TravelDate)),
		fmt.Sprintf("Departure     : %s", safe(b.DepartureTime, "-")),
		fmt.Sprintf("Arrival       : %s", safe(b.ArrivalTime, "-")),
		fmt.Sprintf("Contact       : %s / %s", safe(b.ContactEmail, "-"), safe(b.ContactPhone, "-")),
		fmt.Sprintf("Payment       : %s (%s)", safe(b.PaymentMethod, "-"), safe(b.PaymentStatus, "-")),
		fmt.Sprintf("Total Amount  : %s", utils.FormatMoney(b.TotalAmount)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, p := range b.Passengers {
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s  (age %d, %s)  seat %s", i+1, p.Name, p.Age, p.Gender, p.SeatNumber))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid ID and show this ticket at boarding. Generated "+
		time.Now().Format("2006-01-02 15:04")+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.BookingReference))
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func safeFilenamePart(s string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	return replacer.Replace(strings.TrimSpace(s))
}
