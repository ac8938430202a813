package dispatch

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"eventbridge/internal/schedule"
)

// Readiness is satisfied by discord.Gate.
type Readiness interface {
	Ready() bool
}

// Platform is the part of the Discord session the dispatcher needs.
type Platform interface {
	// Guild resolves a guild from the session's state cache only.
	Guild(guildID string) (*discordgo.Guild, error)
	GuildScheduledEventCreate(guildID string, params *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error)
}

type Dispatcher struct {
	Gate     Readiness
	Platform Platform
	Logger   *zap.Logger
	// Timeout bounds the create call; zero leaves it to the caller's context.
	Timeout time.Duration
}

// Dispatch creates a guild scheduled event from validated event data.
// Every failure is returned as *Error.
func (d *Dispatcher) Dispatch(ctx context.Context, guildID string, data schedule.EventData) (*discordgo.GuildScheduledEvent, error) {
	spec := schedule.Derive(data)

	if d.Gate == nil || !d.Gate.Ready() {
		return nil, &Error{Kind: KindNotReady, GuildID: guildID}
	}
	if d.Platform == nil {
		return nil, &Error{Kind: KindNotReady, GuildID: guildID}
	}
	if g, err := d.Platform.Guild(guildID); err != nil || g == nil {
		return nil, &Error{Kind: KindGuildNotFound, GuildID: guildID, Err: err}
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	event, err := d.Platform.GuildScheduledEventCreate(guildID, Params(spec), discordgo.WithContext(ctx))
	if err != nil {
		d.logger().Error("create scheduled event failed",
			zap.String("guild_id", guildID),
			zap.String("name", spec.Name),
			zap.Error(err),
		)
		return nil, classifyRemote(guildID, err)
	}

	d.logger().Info("created scheduled event",
		zap.String("guild_id", guildID),
		zap.String("event_id", event.ID),
		zap.String("name", event.Name),
	)
	return event, nil
}

// Params converts a derived spec into the Discord create payload.
func Params(spec schedule.EventSpec) *discordgo.GuildScheduledEventParams {
	start := spec.ScheduledStartTime
	desc := spec.Description
	if desc == "" {
		desc = schedule.DefaultDescription
	}
	return &discordgo.GuildScheduledEventParams{
		Name:               spec.Name,
		Description:        desc,
		ScheduledStartTime: &start,
		ScheduledEndTime:   spec.ScheduledEndTime,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevel(spec.PrivacyLevel),
		EntityType:         discordgo.GuildScheduledEventEntityType(spec.EntityType),
		EntityMetadata: &discordgo.GuildScheduledEventEntityMetadata{
			Location: spec.EntityMetadata.Location,
		},
	}
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
