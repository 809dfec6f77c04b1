package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

// GET /api/public/search?from=&to=&date=
func SearchSchedules(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		RespondError(c, http.StatusBadRequest, "from and to are required", nil)
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	schedules, err := bookingService(c).SearchSchedules(from, to, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GET /api/public/available
func GetAvailableSchedules(c *gin.Context) {
	schedules, err := bookingService(c).AvailableSchedules()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GET /api/public/schedule/:id
func GetPublicScheduleByID(c *gin.Context) {
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

	payload := gin.H{"schedule": schedule}
	if bus, err := busRepo().GetByNumber(schedule.BusNumber); err == nil {
		payload["bus"] = bus
	}
	c.JSON(http.StatusOK, payload)
}

// GET /api/public/popular-routes?limit=
func GetPopularRoutes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}
	routes, err := bookingService(c).PopularRoutes(limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}
