package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventbridge/internal/dispatch"
	"eventbridge/internal/notification"
	"eventbridge/internal/schedule"
)

// EventDispatcher is satisfied by *dispatch.Dispatcher.
type EventDispatcher interface {
	Dispatch(ctx context.Context, guildID string, data schedule.EventData) (*discordgo.GuildScheduledEvent, error)
}

type EventNotifier interface {
	Notify(ctx context.Context, ev notification.EventCreated) error
}

type WebhookHandler struct {
	Dispatcher EventDispatcher
	// Notifier is optional; its outcome never changes the response.
	Notifier     EventNotifier
	Logger       *zap.Logger
	Secret       string
	MaxBodyBytes int64
	Now          func() time.Time
}

func (h *WebhookHandler) Register(r *gin.Engine) {
	r.POST("/webhook/google-scripts", RequireSecret(h.Secret), BodyLimit(h.MaxBodyBytes), h.create)
}

// @Summary Create a Discord scheduled event
// @Tags webhook
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string false "Shared secret, when configured"
// @Param body body object true "{guildId, eventData}"
// @Success 200 {object} CreatedResponse
// @Failure 400 {object} failureResponse
// @Failure 401 {object} failureResponse
// @Failure 403 {object} failureResponse
// @Failure 404 {object} failureResponse
// @Failure 500 {object} failureResponse
// @Failure 503 {object} failureResponse
// @Router /webhook/google-scripts [post]
func (h *WebhookHandler) create(c *gin.Context) {
	body, err := decodeBody(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Fail(c, http.StatusRequestEntityTooLarge, "Payload too large", nil)
			return
		}
	}

	guildID, shapeErrs := checkShape(body)
	if len(shapeErrs) > 0 {
		Fail(c, http.StatusBadRequest, "Invalid payload shape", shapeErrs)
		return
	}
	rawEvent := body["eventData"].(map[string]any)

	verdict := schedule.ValidateEventData(rawEvent, h.now())
	if !verdict.Valid {
		Fail(c, http.StatusBadRequest, "Invalid eventData fields", verdict.Errors)
		return
	}
	data, err := schedule.Decode(rawEvent)
	if err != nil {
		Fail(c, http.StatusBadRequest, "Invalid eventData fields", []string{err.Error()})
		return
	}

	if !schedule.IsValidSnowflake(guildID) {
		h.logger().Warn("guild id does not look like a snowflake",
			zap.String("request_id", requestID(c)),
			zap.String("guild_id", guildID),
		)
	}

	event, err := h.Dispatcher.Dispatch(c.Request.Context(), guildID, data)
	if err != nil {
		status, message := failureFor(err)
		h.logger().Error("webhook dispatch failed",
			zap.String("request_id", requestID(c)),
			zap.String("guild_id", guildID),
			zap.String("kind", dispatch.KindOf(err).String()),
			zap.Error(err),
		)
		Fail(c, status, message, err.Error())
		return
	}

	c.JSON(http.StatusOK, CreatedResponse{
		Success:            true,
		EventID:            event.ID,
		EventName:          event.Name,
		ScheduledStartTime: event.ScheduledStartTime.UTC().Format(isoMillis),
	})

	h.notify(c.Request.Context(), guildID, event)
}

func (h *WebhookHandler) notify(ctx context.Context, guildID string, event *discordgo.GuildScheduledEvent) {
	if h.Notifier == nil {
		return
	}
	ev := notification.EventCreated{
		GuildID:            guildID,
		EventID:            event.ID,
		Name:               event.Name,
		ScheduledStartTime: event.ScheduledStartTime.UTC(),
		ScheduledEndTime:   event.ScheduledEndTime,
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := h.Notifier.Notify(ctx, ev); err != nil {
			h.logger().Warn("event notification incomplete", zap.String("event_id", ev.EventID), zap.Error(err))
		}
	}()
}

// decodeBody parses a JSON object. Anything else yields a nil map.
func decodeBody(r io.Reader) (map[string]any, error) {
	if r == nil {
		return nil, nil
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	m, _ := body.(map[string]any)
	return m, nil
}

// checkShape reports the guild id and any structural problems with the body.
func checkShape(body map[string]any) (string, []string) {
	var errs []string
	guildID := ""
	switch raw, ok := body["guildId"]; {
	case !ok || raw == nil || raw == "":
		errs = append(errs, "guildId is required")
	default:
		s, isString := raw.(string)
		if !isString {
			errs = append(errs, "guildId must be a string")
		}
		guildID = s
	}
	if _, ok := body["eventData"].(map[string]any); !ok {
		errs = append(errs, "eventData object is required")
	}
	return guildID, errs
}

func failureFor(err error) (int, string) {
	switch dispatch.KindOf(err) {
	case dispatch.KindNotReady:
		return http.StatusServiceUnavailable, "Discord bot not ready"
	case dispatch.KindGuildNotFound:
		return http.StatusNotFound, "Discord server (guild) not found"
	case dispatch.KindPermissionDenied:
		return http.StatusForbidden, "Bot lacks permissions to create events"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *WebhookHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *WebhookHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
