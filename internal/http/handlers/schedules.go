package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

type scheduleRequest struct {
	BusNumber      string  `json:"busNumber"`
	Route          string  `json:"route"`
	Date           string  `json:"date"`
	Departure      string  `json:"departure"`
	Arrival        string  `json:"arrival"`
	Driver         string  `json:"driver"`
	Fare           float64 `json:"fare"`
	Status         string  `json:"status"`
	AvailableSeats *int    `json:"availableSeats"`
	TotalSeats     int     `json:"totalSeats"`
}

func (r scheduleRequest) validate() (string, bool) {
	if r.BusNumber == "" {
		return "busNumber is required", false
	}
	if r.Route == "" {
		return "route is required", false
	}
	if r.Date == "" {
		return "date is required", false
	}
	if r.Departure == "" || r.Arrival == "" {
		return "departure and arrival times are required", false
	}
	if r.Fare <= 0 {
		return "fare must be greater than zero", false
	}
	if r.TotalSeats < 1 {
		return "totalSeats must be at least 1", false
	}
	if r.Status != "" && !models.ValidScheduleStatus(r.Status) {
		return "status must be Scheduled, In Progress, Completed, or Cancelled", false
	}
	return "", true
}

func scheduleRepo() repositories.ScheduleRepo {
	return repositories.ScheduleRepo{DB: intconfig.DB}
}

// GET /api/schedules
func GetSchedules(c *gin.Context) {
	schedules, err := scheduleRepo().List()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to fetch schedules", err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GET /api/schedules/bus/:busNumber
func GetSchedulesByBus(c *gin.Context) {
	schedules, err := scheduleRepo().ListByBus(c.Param("busNumber"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to fetch schedules", err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GET /api/schedules/route/:route
func GetSchedulesByRoute(c *gin.Context) {
	schedules, err := scheduleRepo().ListByRoute(c.Param("route"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to fetch schedules", err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GET /api/schedules/:id
func GetScheduleByID(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	schedule, err := scheduleRepo().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "Schedule not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch schedule", err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// POST /api/schedules
func CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if msg, ok := req.validate(); !ok {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format", nil)
		return
	}

	if _, err := busRepo().GetByNumber(req.BusNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusBadRequest, "no bus with that number exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to verify bus", err)
		return
	}

	schedule := models.BusSchedule{
		BusNumber:      req.BusNumber,
		Route:          req.Route,
		Date:           date,
		Departure:      req.Departure,
		Arrival:        req.Arrival,
		Driver:         req.Driver,
		Fare:           req.Fare,
		Status:         req.Status,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleScheduled
	}
	if req.AvailableSeats != nil {
		if *req.AvailableSeats < 0 || *req.AvailableSeats > req.TotalSeats {
			RespondError(c, http.StatusBadRequest, "availableSeats must be between 0 and totalSeats", nil)
			return
		}
		schedule.AvailableSeats = *req.AvailableSeats
	}

	id, err := scheduleRepo().Create(schedule)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create schedule", err)
		return
	}
	schedule.ID = id
	c.JSON(http.StatusCreated, schedule)
}

// PUT /api/schedules/:id
func UpdateSchedule(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if msg, ok := req.validate(); !ok {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format", nil)
		return
	}

	existing, err := scheduleRepo().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "Schedule not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch schedule", err)
		return
	}

	existing.BusNumber = req.BusNumber
	existing.Route = req.Route
	existing.Date = date
	existing.Departure = req.Departure
	existing.Arrival = req.Arrival
	existing.Driver = req.Driver
	existing.Fare = req.Fare
	existing.TotalSeats = req.TotalSeats
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.AvailableSeats != nil {
		if *req.AvailableSeats < 0 || *req.AvailableSeats > req.TotalSeats {
			RespondError(c, http.StatusBadRequest, "availableSeats must be between 0 and totalSeats", nil)
			return
		}
		existing.AvailableSeats = *req.AvailableSeats
	} else if existing.AvailableSeats > req.TotalSeats {
		existing.AvailableSeats = req.TotalSeats
	}

	if err := scheduleRepo().Update(existing); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update schedule", err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DELETE /api/schedules/:id
func DeleteSchedule(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if err := scheduleRepo().Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "Schedule not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to delete schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}
