package handlers

import (
	"net/http"

	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency snapshot. Monitor may be nil.
type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	if h.Monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Ziyonstar"})
		return
	}
	status := h.Monitor.Status()
	code := http.StatusOK
	label := "ok"
	if !status.Healthy {
		code = http.StatusServiceUnavailable
		label = "degraded"
	}
	c.JSON(code, gin.H{"status": label, "services": status.Services, "checkedAt": status.CheckedAt})
}
