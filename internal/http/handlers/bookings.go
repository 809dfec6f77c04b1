package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/http/middleware"
	"github.com/quirkbeesdevtech/amberisle-be/internal/observability"
	"github.com/quirkbeesdevtech/amberisle-be/internal/services"
)

type createBookingRequest struct {
	ScheduleID    int64              `json:"scheduleId"`
	Passengers    []models.Passenger `json:"passengers"`
	ContactEmail  string             `json:"contactEmail"`
	ContactPhone  string             `json:"contactPhone"`
	PaymentMethod string             `json:"paymentMethod"`
}

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).CreateBooking(middleware.GetUserID(c), services.CreateBookingInput{
		ScheduleID:    req.ScheduleID,
		Passengers:    req.Passengers,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	observability.BookingsCreated.Inc()
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings/my-bookings
func GetMyBookings(c *gin.Context) {
	bookings, err := bookingService(c).ListForUser(middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).GetByID(id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /api/bookings/reference/:reference
func GetBookingByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		RespondError(c, http.StatusBadRequest, "booking reference is required", nil)
		return
	}
	booking, err := bookingService(c).GetByReference(reference, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PUT /api/bookings/:id/cancel
func CancelBooking(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// body is optional; a bare cancel uses the default reason
	_ = c.ShouldBindJSON(&req)

	booking, err := bookingService(c).CancelBooking(id, middleware.GetUserID(c), req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	observability.BookingsCancelled.Inc()
	c.JSON(http.StatusOK, booking)
}

// PUT /api/bookings/:id/payment
func UpdateBookingPayment(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).UpdatePaymentStatus(id, middleware.GetUserID(c), req.PaymentStatus)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /api/bookings/:id/e-ticket
func DownloadETicket(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateETicket(id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
