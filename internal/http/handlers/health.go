package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler { return &HealthHandler{now: time.Now} }

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": h.now().UTC().Format(time.RFC3339)})
}
