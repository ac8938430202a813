package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Discord Event Webhook

Creates Discord guild scheduled events from JSON webhooks (Google Apps Script, cron jobs, forms).

## Create an event

POST /webhook/google-scripts

    {
      "guildId": "123456789012345678",
      "eventData": {
        "name": "Community Call",
        "scheduledStartTime": "2026-05-04T18:30:00.000Z",
        "scheduledEndTime": "2026-05-04T19:30:00.000Z",
        "description": "Monthly sync",
        "privacyLevel": 2,
        "entityType": 3,
        "entityMetadata": { "location": "Zoom" }
      }
    }

Only name and scheduledStartTime are required. External events without an
end time last two hours; the location defaults to TBD.

When a webhook secret is configured, send it in the X-Webhook-Secret header.

## Status codes

- 200 created
- 400 invalid payload shape or eventData fields
- 401 wrong or missing webhook secret
- 403 bot lacks permissions in the guild
- 404 guild not in the bot's cache
- 413 body too large
- 500 any other Discord failure
- 503 bot not ready

## Other routes

- GET /webhook/health
- GET /healthz
- GET /readyz
- GET /swagger/index.html
`)
	})
}
