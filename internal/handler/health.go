package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventbridge/internal/discord"
)

// SessionGate is satisfied by *discord.Gate.
type SessionGate interface {
	Ready() bool
	State() discord.SessionState
}

type HealthHandler struct {
	Gate SessionGate
	Now  func() time.Time
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
	r.GET("/webhook/health", h.webhookHealth)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.Gate == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "session_missing"})
		return
	}
	if !h.Gate.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": h.Gate.State().String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// @Summary Webhook liveness with bot readiness
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /webhook/health [get]
func (h *HealthHandler) webhookHealth(c *gin.Context) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Service:   "Discord Event Webhook",
		Timestamp: now.UTC().Format(isoMillis),
		BotReady:  h.Gate != nil && h.Gate.Ready(),
	})
}
