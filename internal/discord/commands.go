package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"eventbridge/internal/dispatch"
	"eventbridge/internal/schedule"
)

// Definitions are the slash commands published for the application.
var Definitions = []*discordgo.ApplicationCommand{
	{Name: "ping", Description: "Check if the bot is responsive"},
	{Name: "test-event", Description: "Create a test scheduled event"},
}

// Responder is the subset of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

type commandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

type Commands struct {
	Responder  Responder
	Dispatcher *dispatch.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
	// Timeout bounds a single command; zero means 10s.
	Timeout time.Duration
}

// Register overwrites the global command set of the application.
func (c *Commands) Register(r commandRegistrar, appID string) error {
	_, err := r.ApplicationCommandBulkOverwrite(appID, "", Definitions)
	return err
}

// Handle answers one interaction. Non-command interactions are ignored.
func (c *Commands) Handle(i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	name := i.ApplicationCommandData().Name
	var (
		reply     string
		ephemeral bool
	)
	switch name {
	case "ping":
		reply = c.ping(i)
	case "test-event":
		reply, ephemeral = c.testEvent(ctx, i)
	default:
		reply, ephemeral = "Unknown command!", true
	}

	if err := c.respond(i, reply, ephemeral); err != nil {
		c.logger().Error("interaction reply failed", zap.String("command", name), zap.Error(err))
	}
}

func (c *Commands) ping(i *discordgo.Interaction) string {
	created, err := discordgo.SnowflakeTimestamp(i.ID)
	if err != nil {
		return "Pong!"
	}
	latency := c.now().Sub(created)
	if latency < 0 {
		latency = 0
	}
	return fmt.Sprintf("Pong! Latency: %dms", latency.Milliseconds())
}

// testEvent reports the reply and whether only the caller should see it.
func (c *Commands) testEvent(ctx context.Context, i *discordgo.Interaction) (string, bool) {
	if i.GuildID == "" {
		return "This command can only be used in a server!", true
	}
	if c.Dispatcher == nil {
		return "Failed to create test event. Please check bot permissions.", true
	}
	data := schedule.EventData{
		Name:               "Test Event",
		Description:        "This is a test event created by the bot",
		ScheduledStartTime: c.now().Add(time.Hour),
		PrivacyLevel:       schedule.PrivacyGuildOnly,
		EntityType:         schedule.EntityExternal,
		EntityMetadata:     &schedule.EntityMetadata{Location: "Test Location"},
	}
	ev, err := c.Dispatcher.Dispatch(ctx, i.GuildID, data)
	if err != nil {
		c.logger().Error("test event failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		return "Failed to create test event. Please check bot permissions.", true
	}
	return fmt.Sprintf("Test event created successfully! Event ID: %s", ev.ID), false
}

func (c *Commands) respond(i *discordgo.Interaction, content string, ephemeral bool) error {
	if c.Responder == nil {
		return fmt.Errorf("no responder")
	}
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return c.Responder.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func (c *Commands) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}

func (c *Commands) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
