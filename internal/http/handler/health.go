package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers container and load-balancer probes. It must stay fast, so
// no dependency round-trips here.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
