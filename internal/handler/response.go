package handler

import (
	"github.com/gin-gonic/gin"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// CreatedResponse is returned after a scheduled event was created.
type CreatedResponse struct {
	Success            bool   `json:"success"`
	EventID            string `json:"eventId"`
	EventName          string `json:"eventName"`
	ScheduledStartTime string `json:"scheduledStartTime"`
}

// HealthResponse is the body of GET /webhook/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	BotReady  bool   `json:"botReady"`
}

func Fail(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, failureResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}
