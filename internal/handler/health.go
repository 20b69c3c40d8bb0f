package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "admin-console"

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"time":    time.Now().Unix(),
	})
}

// Readiness reports ready once persisted sessions have been loaded.
func Readiness(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil && !ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
