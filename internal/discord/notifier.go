package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"eventbridge/internal/notification"
	"eventbridge/internal/schedule"
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelNotifier posts a confirmation message into a text channel.
type ChannelNotifier struct {
	Sender    messageSender
	ChannelID string
}

func (n *ChannelNotifier) Name() string { return "discord_channel" }

func (n *ChannelNotifier) Notify(ctx context.Context, ev notification.EventCreated) error {
	if n.Sender == nil || n.ChannelID == "" {
		return errors.New("discord channel notifier not configured")
	}
	_, err := n.Sender.ChannelMessageSend(n.ChannelID, ConfirmationMessage(ev), discordgo.WithContext(ctx))
	return err
}

// ConfirmationMessage renders the channel announcement for a created event.
func ConfirmationMessage(ev notification.EventCreated) string {
	msg := fmt.Sprintf("New scheduled event **%s** starts <t:%d:F>", schedule.Sanitize(ev.Name), ev.ScheduledStartTime.Unix())
	if ev.ScheduledEndTime != nil {
		msg += fmt.Sprintf(" and ends <t:%d:t>", ev.ScheduledEndTime.Unix())
	}
	msg += fmt.Sprintf(".\nhttps://discord.com/events/%s/%s", ev.GuildID, ev.EventID)
	return msg
}
