package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
)

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Backend is healthy and running!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"database": "ok"})
}
