package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
)

type busRequest struct {
	BusNumber          string `json:"busNumber"`
	RegistrationNumber string `json:"registrationNumber"`
	Capacity           int    `json:"capacity"`
	BusType            string `json:"busType"`
	Status             string `json:"status"`
}

func (r busRequest) validate() (string, bool) {
	if r.BusNumber == "" {
		return "busNumber is required", false
	}
	if r.RegistrationNumber == "" {
		return "registrationNumber is required", false
	}
	if r.Capacity < 1 {
		return "capacity must be at least 1", false
	}
	if !models.ValidBusType(r.BusType) {
		return "busType must be AC, Non-AC, Sleeper, or Seater", false
	}
	return "", true
}

func busRepo() repositories.BusRepo {
	return repositories.BusRepo{DB: intconfig.DB}
}

// GET /api/buses
func GetBuses(c *gin.Context) {
	buses, err := busRepo().List()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to fetch buses", err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

// GET /api/buses/:id
func GetBusByID(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	bus, err := busRepo().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "Bus not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch bus", err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// POST /api/buses
func CreateBus(c *gin.Context) {
	var req busRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if msg, ok := req.validate(); !ok {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}

	bus := models.Bus{
		BusNumber:          req.BusNumber,
		RegistrationNumber: req.RegistrationNumber,
		Capacity:           req.Capacity,
		BusType:            req.BusType,
		Status:             req.Status,
	}
	if bus.Status == "" {
		bus.Status = models.BusStatusActive
	}

	id, err := busRepo().Create(bus)
	if err != nil {
		if intdb.IsDuplicate(err) {
			RespondError(c, http.StatusBadRequest, "bus number or registration number already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to create bus", err)
		return
	}
	bus.ID = id
	c.JSON(http.StatusCreated, bus)
}

// PUT /api/buses/:id
func UpdateBus(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req busRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if msg, ok := req.validate(); !ok {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}

	existing, err := busRepo().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "Bus not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch bus", err)
		return
	}

	existing.BusNumber = req.BusNumber
	existing.RegistrationNumber = req.RegistrationNumber
	existing.Capacity = req.Capacity
	existing.BusType = req.BusType
	if req.Status != "" {
		existing.Status = req.Status
	}

	if err := busRepo().Update(existing); err != nil {
		if intdb.IsDuplicate(err) {
			RespondError(c, http.StatusBadRequest, "bus number or registration number already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update bus", err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DELETE /api/buses/:id
func DeleteBus(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if err := busRepo().Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "Bus not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to delete bus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted successfully"})
}
