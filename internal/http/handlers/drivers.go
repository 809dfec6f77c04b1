package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/http/middleware"
	"github.com/quirkbeesdevtech/amberisle-be/internal/observability"
	"github.com/quirkbeesdevtech/amberisle-be/internal/services"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

type driverRequest struct {
	FullName         string                  `json:"fullName"`
	LicenseNumber    string                  `json:"licenseNumber"`
	LicenseExpiry    string                  `json:"licenseExpiry"`
	ContactNumber    string                  `json:"contactNumber"`
	Address          string                  `json:"address"`
	DateOfBirth      string                  `json:"dateOfBirth"`
	EmergencyContact models.EmergencyContact `json:"emergencyContact"`
	Experience       int                     `json:"experience"`
	Salary           float64                 `json:"salary"`
	AssignedBus      string                  `json:"assignedBus"`
	Status           string                  `json:"availabilityStatus"`
	ProfilePhoto     string                  `json:"profilePhoto"`
}

func (r driverRequest) toModel(c *gin.Context) (models.Driver, bool) {
	d := models.Driver{
		FullName:           utils.NormalizeSpace(r.FullName),
		LicenseNumber:      utils.TrimOrEmpty(r.LicenseNumber),
		ContactNumber:      utils.TrimOrEmpty(r.ContactNumber),
		Address:            utils.TrimOrEmpty(r.Address),
		EmergencyContact:   r.EmergencyContact,
		Experience:         r.Experience,
		Salary:             r.Salary,
		AssignedBus:        r.AssignedBus,
		AvailabilityStatus: r.Status,
		ProfilePhoto:       r.ProfilePhoto,
	}
	if r.LicenseExpiry != "" {
		expiry, err := utils.ParseDate(r.LicenseExpiry)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "licenseExpiry must be in YYYY-MM-DD format", nil)
			return models.Driver{}, false
		}
		d.LicenseExpiry = expiry
	}
	if r.DateOfBirth != "" {
		dob, err := utils.ParseDate(r.DateOfBirth)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "dateOfBirth must be in YYYY-MM-DD format", nil)
			return models.Driver{}, false
		}
		d.DateOfBirth = &dob
	}
	return d, true
}

func driverService(c *gin.Context) services.DriverService {
	return services.DriverService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/drivers
func GetDrivers(c *gin.Context) {
	drivers, err := driverService(c).List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GET /api/drivers/status/:status
func GetDriversByStatus(c *gin.Context) {
	drivers, err := driverService(c).ListByStatus(c.Param("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GET /api/drivers/available
func GetAvailableDrivers(c *gin.Context) {
	drivers, err := driverService(c).ListAvailable()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GET /api/drivers/stats
func GetDriverStats(c *gin.Context) {
	stats, err := driverService(c).Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/drivers/expiring-licenses
func GetExpiringLicenses(c *gin.Context) {
	drivers, err := driverService(c).ExpiringLicenses()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GET /api/drivers/expired
func GetExpiredLicenses(c *gin.Context) {
	drivers, err := driverService(c).Expired()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GET /api/drivers/existing-contacts
func GetExistingContacts(c *gin.Context) {
	contacts, err := driverService(c).ExistingContacts()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// GET /api/drivers/:id
func GetDriverByID(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	driver, err := driverService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, ok := req.toModel(c)
	if !ok {
		return
	}
	created, err := driverService(c).Create(d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, ok := req.toModel(c)
	if !ok {
		return
	}
	updated, err := driverService(c).Update(id, d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	if err := driverService(c).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted successfully"})
}

// POST /api/drivers/assign
func AssignDriver(c *gin.Context) {
	var req struct {
		DriverID  int64  `json:"driverId"`
		BusNumber string `json:"busNumber"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.DriverID <= 0 {
		RespondError(c, http.StatusBadRequest, "driverId is required", nil)
		return
	}
	if req.BusNumber == "" {
		RespondError(c, http.StatusBadRequest, "busNumber is required", nil)
		return
	}
	driver, err := driverService(c).Assign(req.DriverID, req.BusNumber)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// PUT /api/drivers/:id/unassign
func UnassignDriver(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	driver, err := driverService(c).Unassign(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// PUT /api/drivers/:id/reactivate
func ReactivateDriver(c *gin.Context) {
	id, ok := IDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		LicenseExpiry string `json:"licenseExpiry"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	expiry, err := utils.ParseDate(req.LicenseExpiry)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "licenseExpiry must be in YYYY-MM-DD format", nil)
		return
	}
	// renewals run to end of day so a same-day date is still a future expiry
	expiry = expiry.Add(24*time.Hour - time.Second)

	driver, err := driverService(c).Reactivate(id, expiry)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// POST /api/drivers/update-expired-licenses
func ReconcileDriverLicenses(c *gin.Context) {
	deactivated, restored, err := driverService(c).BulkReconcile()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	observability.DriversDeactivated.Add(float64(deactivated))
	observability.DriversRestored.Add(float64(restored))
	c.JSON(http.StatusOK, gin.H{
		"message":     "License statuses updated",
		"deactivated": deactivated,
		"restored":    restored,
	})
}

// POST /api/drivers/:id/upload-photo
func UploadDriverPhoto(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IDParam(c, "id")
		if !ok {
			return
		}
		file, header, err := c.Request.FormFile("photo")
		if err != nil {
			RespondError(c, http.StatusBadRequest, "photo file is required", nil)
			return
		}
		defer file.Close()

		svc := services.PhotoService{
			UploadDir: env.UploadDir,
			RequestID: middleware.GetRequestID(c),
		}
		uri, err := svc.Store(id, file, header.Filename)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"profilePhoto": uri})
	}
}

// DELETE /api/drivers/:id/photo
func DeleteDriverPhoto(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IDParam(c, "id")
		if !ok {
			return
		}
		svc := services.PhotoService{
			UploadDir: env.UploadDir,
			RequestID: middleware.GetRequestID(c),
		}
		if err := svc.Delete(id); err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"profilePhoto": models.DefaultDriverPhoto})
	}
}
