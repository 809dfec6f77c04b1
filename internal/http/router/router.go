package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/http/handlers"
	"github.com/quirkbeesdevtech/amberisle-be/internal/http/middleware"
)

// New builds the HTTP engine with all routes and middleware attached.
func New(env intconfig.Env) *gin.Engine {
	gin.SetMode(env.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads/drivers", env.UploadDir)

	api := r.Group("/api")

	api.GET("/health", handlers.Health)
	api.GET("/db-check", handlers.DBCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(env))
		auth.POST("/login", handlers.Login(env, models.RoleUser))
		auth.POST("/logout", handlers.Logout)
		auth.GET("/me", middleware.Authenticate(env.JWTSecret), handlers.Me(env))
	}

	// The admin console logs in through its own endpoint; a user-role
	// account is rejected there with 403. Registration is not exposed here.
	api.POST("/admin/auth/login", handlers.Login(env, models.RoleAdmin))

	public := api.Group("/public")
	{
		public.GET("/search", handlers.SearchSchedules)
		public.GET("/available", handlers.GetAvailableSchedules)
		public.GET("/popular-routes", handlers.GetPopularRoutes)
		public.GET("/schedule/:id", handlers.GetPublicScheduleByID)
	}

	// Schedule reads are open so the booking frontend can browse without a
	// session; writes stay behind the admin gate below.
	api.GET("/schedules", handlers.GetSchedules)
	api.GET("/schedules/bus/:busNumber", handlers.GetSchedulesByBus)
	api.GET("/schedules/route/:route", handlers.GetSchedulesByRoute)
	api.GET("/schedules/:id", handlers.GetScheduleByID)

	admin := api.Group("")
	admin.Use(middleware.Authenticate(env.JWTSecret), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/buses", handlers.GetBuses)
		admin.GET("/buses/:id", handlers.GetBusByID)
		admin.POST("/buses", handlers.CreateBus)
		admin.PUT("/buses/:id", handlers.UpdateBus)
		admin.DELETE("/buses/:id", handlers.DeleteBus)

		admin.POST("/schedules", handlers.CreateSchedule)
		admin.PUT("/schedules/:id", handlers.UpdateSchedule)
		admin.DELETE("/schedules/:id", handlers.DeleteSchedule)

		admin.GET("/drivers", handlers.GetDrivers)
		admin.GET("/drivers/available", handlers.GetAvailableDrivers)
		admin.GET("/drivers/stats", handlers.GetDriverStats)
		admin.GET("/drivers/expiring-licenses", handlers.GetExpiringLicenses)
		admin.GET("/drivers/expired", handlers.GetExpiredLicenses)
		admin.GET("/drivers/existing-contacts", handlers.GetExistingContacts)
		admin.GET("/drivers/status/:status", handlers.GetDriversByStatus)
		admin.GET("/drivers/:id", handlers.GetDriverByID)
		admin.POST("/drivers", handlers.CreateDriver)
		admin.PUT("/drivers/:id", handlers.UpdateDriver)
		admin.DELETE("/drivers/:id", handlers.DeleteDriver)
		admin.POST("/drivers/assign", handlers.AssignDriver)
		admin.PUT("/drivers/:id/unassign", handlers.UnassignDriver)
		admin.PUT("/drivers/:id/reactivate", handlers.ReactivateDriver)
		admin.POST("/drivers/update-expired-licenses", handlers.ReconcileDriverLicenses)
		admin.POST("/drivers/:id/upload-photo", handlers.UploadDriverPhoto(env))
		admin.DELETE("/drivers/:id/photo", handlers.DeleteDriverPhoto(env))
	}

	// Admins can act on bookings too; ownership checks in the service still
	// apply per requester id.
	bookings := api.Group("/bookings")
	bookings.Use(middleware.Authenticate(env.JWTSecret), middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	{
		bookings.POST("", handlers.CreateBooking)
		bookings.GET("/my-bookings", handlers.GetMyBookings)
		bookings.GET("/reference/:reference", handlers.GetBookingByReference)
		bookings.GET("/:id", handlers.GetBookingByID)
		bookings.PUT("/:id/cancel", handlers.CancelBooking)
		bookings.PUT("/:id/payment", handlers.UpdateBookingPayment)
		bookings.GET("/:id/e-ticket", handlers.DownloadETicket)
	}

	return r
}
