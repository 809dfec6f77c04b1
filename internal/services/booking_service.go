package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

const (
	defaultCancelReason = "Cancelled by user"
	popularRouteWindow  = 30 // days
)

type BookingService struct {
	BookingRepo  repositories.BookingRepo
	ScheduleRepo repositories.ScheduleRepo
	BusRepo      repositories.BusRepo
	DB           *sql.DB
	RequestID    string
	Now          func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s BookingService) schedules() repositories.ScheduleRepo {
	if s.ScheduleRepo.DB != nil {
		return s.ScheduleRepo
	}
	return repositories.ScheduleRepo{DB: s.db()}
}

func (s BookingService) buses() repositories.BusRepo {
	if s.BusRepo.DB != nil {
		return s.BusRepo
	}
	return repositories.BusRepo{DB: s.db()}
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// newBookingReference builds the human-facing reference: "BK" + epoch millis
// + 0..999. Collisions are vanishingly rare; the unique key on the column is
// the safety net and CreateBooking retries on it.
func newBookingReference(now time.Time) string {
	return fmt.Sprintf("BK%d%d", now.UnixMilli(), rand.Intn(1000))
}

// CreateBookingInput is the validated request payload for a new booking.
type CreateBookingInput struct {
	ScheduleID    int64
	Passengers    []models.Passenger
	ContactEmail  string
	ContactPhone  string
	PaymentMethod string
}

func (s BookingService) validateCreate(in CreateBookingInput) error {
	if in.ScheduleID <= 0 {
		return domain.ValidationError{Field: "scheduleId", Msg: "schedule id is required"}
	}
	if len(in.Passengers) == 0 {
		return domain.ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	for i, p := range in.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return domain.ValidationError{Field: fmt.Sprintf("passengers[%d].name", i), Msg: "name is required"}
		}
		if p.Age < 1 {
			return domain.ValidationError{Field: fmt.Sprintf("passengers[%d].age", i), Msg: "age must be at least 1"}
		}
		if !models.ValidGender(p.Gender) {
			return domain.ValidationError{Field: fmt.Sprintf("passengers[%d].gender", i), Msg: "gender must be Male, Female, or Other"}
		}
		if strings.TrimSpace(p.SeatNumber) == "" {
			return domain.ValidationError{Field: fmt.Sprintf("passengers[%d].seatNumber", i), Msg: "seat number is required"}
		}
	}
	if strings.TrimSpace(in.ContactEmail) == "" {
		return domain.ValidationError{Field: "contactEmail", Msg: "contact email is required"}
	}
	if strings.TrimSpace(in.ContactPhone) == "" {
		return domain.ValidationError{Field: "contactPhone", Msg: "contact phone is required"}
	}
	if in.PaymentMethod != "" && !models.ValidPaymentMethod(in.PaymentMethod) {
		return domain.ValidationError{Field: "paymentMethod", Msg: "must be Cash, Card, Online, or Wallet"}
	}
	return nil
}

// CreateBooking reserves seats and persists the booking in one transaction.
// The seat decrement is guarded (available_seats >= count) so two concurrent
// bookings cannot both pass the availability check.
func (s BookingService) CreateBooking(userID int64, in CreateBookingInput) (models.Booking, error) {
	if err := s.validateCreate(in); err != nil {
		return models.Booking{}, err
	}

	schedule, err := s.schedules().GetByID(in.ScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "schedule", Err: err}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	bus, err := s.buses().GetByNumber(schedule.BusNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "bus", Err: err}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	count := len(in.Passengers)
	if schedule.AvailableSeats < count {
		return models.Booking{}, domain.InvalidStateError{
			Msg: fmt.Sprintf("Only %d seats available", schedule.AvailableSeats),
		}
	}

	from, to := models.SplitRoute(schedule.Route)
	method := in.PaymentMethod
	if method == "" {
		method = "Online"
	}

	booking := models.Booking{
		UserID:        userID,
		ScheduleID:    schedule.ID,
		BusID:         bus.ID,
		From:          from,
		To:            to,
		TravelDate:    schedule.Date,
		DepartureTime: schedule.Departure,
		ArrivalTime:   schedule.Arrival,
		Passengers:    in.Passengers,
		TotalAmount:   schedule.Fare * float64(count),
		PaymentStatus: models.PaymentPending,
		PaymentMethod: method,
		BookingStatus: models.BookingActive,
		ContactEmail:  strings.TrimSpace(in.ContactEmail),
		ContactPhone:  strings.TrimSpace(in.ContactPhone),
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	ok, err := s.schedules().ReserveSeats(tx, schedule.ID, count)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.InvalidStateError{
			Msg: fmt.Sprintf("Only %d seats available", schedule.AvailableSeats),
		}
	}

	// Retry the insert on the off chance two bookings mint the same
	// reference in the same millisecond.
	var id int64
	for attempt := 0; attempt < 3; attempt++ {
		booking.BookingReference = newBookingReference(s.now())
		id, err = s.bookings().CreateTx(tx, booking)
		if err == nil || !intdb.IsDuplicate(err) {
			break
		}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	booking.ID = id

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d reference=%s seats=%d", id, booking.BookingReference, count))

	created, err := s.bookings().GetByID(id)
	if err != nil {
		return booking, nil
	}
	return created, nil
}

func (s BookingService) getOwned(bookingID, requesterID int64) (models.Booking, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if booking.UserID != requesterID {
		return models.Booking{}, domain.ForbiddenError{}
	}
	return booking, nil
}

// CancelBooking is a terminal transition: status flips to Cancelled, a
// Completed payment becomes Refunded, and the seats return to the schedule
// in the same transaction.
func (s BookingService) CancelBooking(bookingID, requesterID int64, reason string) (models.Booking, error) {
	booking, err := s.getOwned(bookingID, requesterID)
	if err != nil {
		return models.Booking{}, err
	}

	if booking.BookingStatus == models.BookingCancelled {
		return models.Booking{}, domain.InvalidStateError{Msg: "booking already cancelled"}
	}
	if booking.BookingStatus == models.BookingCompleted {
		return models.Booking{}, domain.InvalidStateError{Msg: "cannot cancel completed booking"}
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultCancelReason
	}
	paymentStatus := booking.PaymentStatus
	if paymentStatus == models.PaymentCompleted {
		paymentStatus = models.PaymentRefunded
	}
	cancelledAt := s.now()

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := s.bookings().CancelTx(tx, bookingID, cancelledAt, reason, paymentStatus); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.schedules().RestoreSeats(tx, booking.ScheduleID, len(booking.Passengers)); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	booking.BookingStatus = models.BookingCancelled
	booking.CancelledAt = &cancelledAt
	booking.CancellationReason = reason
	booking.PaymentStatus = paymentStatus

	utils.LogEvent(s.RequestID, "booking", "cancel",
		fmt.Sprintf("booking_id=%d seats_restored=%d", bookingID, len(booking.Passengers)))
	return booking, nil
}

// UpdatePaymentStatus sets the payment status with no transition
// restrictions; any valid enum value is accepted regardless of the current
// one. That looseness is intentional.
func (s BookingService) UpdatePaymentStatus(bookingID, requesterID int64, paymentStatus string) (models.Booking, error) {
	if !models.ValidPaymentStatus(paymentStatus) {
		return models.Booking{}, domain.ValidationError{Field: "paymentStatus", Msg: "must be Pending, Completed, Failed, or Refunded"}
	}

	booking, err := s.getOwned(bookingID, requesterID)
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.bookings().UpdatePaymentStatus(bookingID, paymentStatus); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	booking.PaymentStatus = paymentStatus

	utils.LogEvent(s.RequestID, "booking", "payment_status",
		fmt.Sprintf("booking_id=%d status=%s", bookingID, paymentStatus))
	return booking, nil
}

func (s BookingService) GetByID(bookingID, requesterID int64) (models.Booking, error) {
	return s.getOwned(bookingID, requesterID)
}

func (s BookingService) GetByReference(reference string, requesterID int64) (models.Booking, error) {
	booking, err := s.bookings().GetByReference(reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if booking.UserID != requesterID {
		return models.Booking{}, domain.ForbiddenError{}
	}
	return booking, nil
}

func (s BookingService) ListForUser(userID int64, status string) ([]models.Booking, error) {
	bookings, err := s.bookings().ListByUser(userID, status)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return bookings, nil
}

// SearchSchedules finds bookable departures for a route on a calendar day.
func (s BookingService) SearchSchedules(from, to string, date time.Time) ([]models.BusSchedule, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, domain.ValidationError{Field: "from/to", Msg: "both endpoints are required"}
	}
	start, end := utils.DayBounds(date)
	schedules, err := s.schedules().Search(strings.TrimSpace(from), strings.TrimSpace(to), start, end)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return schedules, nil
}

func (s BookingService) AvailableSchedules() ([]models.BusSchedule, error) {
	schedules, err := s.schedules().ListAvailable(s.now())
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return schedules, nil
}

// PopularRoutes ranks routes by booking volume over the trailing window.
func (s BookingService) PopularRoutes(limit int) ([]models.PopularRoute, error) {
	if limit <= 0 {
		limit = 5
	}
	since := s.now().AddDate(0, 0, -popularRouteWindow)
	routes, err := s.bookings().PopularRoutes(limit, since)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "popular_routes", "limit="+strconv.Itoa(limit))
	return routes, nil
}
