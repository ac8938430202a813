package discord

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbridge/internal/dispatch"
	"eventbridge/internal/dispatch/dispatchtest"
	"eventbridge/internal/schedule"
)

type recordingResponder struct {
	got []*discordgo.InteractionResponse
	err error
}

func (r *recordingResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.got = append(r.got, resp)
	return r.err
}

func (r *recordingResponder) last(t *testing.T) *discordgo.InteractionResponseData {
	t.Helper()
	if len(r.got) == 0 {
		t.Fatalf("no interaction response recorded")
	}
	return r.got[len(r.got)-1].Data
}

var clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func snowflakeAt(ts time.Time) string {
	return strconv.FormatInt((ts.UnixMilli()-1420070400000)<<22, 10)
}

func command(name, guildID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:      snowflakeAt(clock.Add(-42 * time.Millisecond)),
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Data:    discordgo.ApplicationCommandInteractionData{Name: name},
	}
}

func newCommands(platform *dispatchtest.Platform, ready bool) (*Commands, *recordingResponder) {
	resp := &recordingResponder{}
	return &Commands{
		Responder:  resp,
		Dispatcher: &dispatch.Dispatcher{Gate: dispatchtest.Ready(ready), Platform: platform},
		Now:        func() time.Time { return clock },
	}, resp
}

func TestCommands_Ping(t *testing.T) {
	c, resp := newCommands(dispatchtest.NewPlatform(), true)
	c.Handle(command("ping", ""))

	data := resp.last(t)
	if data.Content != "Pong! Latency: 42ms" {
		t.Fatalf("content=%q", data.Content)
	}
	if data.Flags&discordgo.MessageFlagsEphemeral != 0 {
		t.Fatalf("ping reply should be public")
	}
	if resp.got[0].Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Fatalf("type=%v", resp.got[0].Type)
	}
}

func TestCommands_PingBadSnowflake(t *testing.T) {
	c, resp := newCommands(dispatchtest.NewPlatform(), true)
	i := command("ping", "")
	i.ID = "not-a-snowflake"
	c.Handle(i)
	if got := resp.last(t).Content; got != "Pong!" {
		t.Fatalf("content=%q", got)
	}
}

func TestCommands_TestEvent(t *testing.T) {
	platform := dispatchtest.NewPlatform("111111111111111111")
	c, resp := newCommands(platform, true)
	c.Handle(command("test-event", "111111111111111111"))

	data := resp.last(t)
	want := "Test event created successfully! Event ID: " + platform.LastID()
	if data.Content != want {
		t.Fatalf("content=%q want %q", data.Content, want)
	}
	if len(platform.Calls) != 1 {
		t.Fatalf("calls=%d want 1", len(platform.Calls))
	}
	p := platform.Calls[0]
	if p.Name != "Test Event" || p.EntityMetadata.Location != "Test Location" {
		t.Fatalf("params=%+v", p)
	}
	if !p.ScheduledStartTime.Equal(clock.Add(time.Hour)) {
		t.Fatalf("start=%s", p.ScheduledStartTime)
	}
	if p.ScheduledEndTime == nil || !p.ScheduledEndTime.Equal(clock.Add(time.Hour+schedule.DefaultExternalDuration)) {
		t.Fatalf("end=%v", p.ScheduledEndTime)
	}
	if p.PrivacyLevel != discordgo.GuildScheduledEventPrivacyLevelGuildOnly {
		t.Fatalf("privacy=%v", p.PrivacyLevel)
	}
}

func TestCommands_TestEventOutsideGuild(t *testing.T) {
	platform := dispatchtest.NewPlatform()
	c, resp := newCommands(platform, true)
	c.Handle(command("test-event", ""))

	data := resp.last(t)
	if data.Content != "This command can only be used in a server!" {
		t.Fatalf("content=%q", data.Content)
	}
	if data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("expected ephemeral reply")
	}
	if len(platform.Calls) != 0 {
		t.Fatalf("no create call expected")
	}
}

func TestCommands_TestEventFailure(t *testing.T) {
	platform := dispatchtest.NewPlatform("111111111111111111")
	platform.Err = dispatchtest.RESTError(403, discordgo.ErrCodeMissingPermissions, "Missing Permissions")
	c, resp := newCommands(platform, true)
	c.Handle(command("test-event", "111111111111111111"))

	data := resp.last(t)
	if data.Content != "Failed to create test event. Please check bot permissions." {
		t.Fatalf("content=%q", data.Content)
	}
	if data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("expected ephemeral reply")
	}
}

func TestCommands_TestEventNotReady(t *testing.T) {
	platform := dispatchtest.NewPlatform("111111111111111111")
	c, resp := newCommands(platform, false)
	c.Handle(command("test-event", "111111111111111111"))

	if got := resp.last(t).Content; got != "Failed to create test event. Please check bot permissions." {
		t.Fatalf("content=%q", got)
	}
	if len(platform.Calls) != 0 {
		t.Fatalf("no create call expected while not ready")
	}
}

func TestCommands_Unknown(t *testing.T) {
	c, resp := newCommands(dispatchtest.NewPlatform(), true)
	c.Handle(command("dance", ""))
	data := resp.last(t)
	if data.Content != "Unknown command!" || data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("data=%+v", data)
	}
}

func TestCommands_IgnoresNonCommands(t *testing.T) {
	c, resp := newCommands(dispatchtest.NewPlatform(), true)
	c.Handle(&discordgo.Interaction{Type: discordgo.InteractionPing})
	c.Handle(nil)
	if len(resp.got) != 0 {
		t.Fatalf("responses=%d want 0", len(resp.got))
	}
}

func TestCommands_RespondErrorIsSwallowed(t *testing.T) {
	c, resp := newCommands(dispatchtest.NewPlatform(), true)
	resp.err = errors.New("unknown interaction")
	c.Handle(command("ping", ""))
	if len(resp.got) != 1 {
		t.Fatalf("responses=%d want 1", len(resp.got))
	}
}

type fakeRegistrar struct {
	appID    string
	guildID  string
	commands []*discordgo.ApplicationCommand
}

func (f *fakeRegistrar) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.appID, f.guildID, f.commands = appID, guildID, commands
	return commands, nil
}

func TestCommands_Register(t *testing.T) {
	r := &fakeRegistrar{}
	c := &Commands{}
	if err := c.Register(r, "123456789012345678"); err != nil {
		t.Fatalf("err=%v", err)
	}
	if r.appID != "123456789012345678" || r.guildID != "" {
		t.Fatalf("app=%q guild=%q", r.appID, r.guildID)
	}
	if len(r.commands) != 2 || r.commands[0].Name != "ping" || r.commands[1].Name != "test-event" {
		t.Fatalf("commands=%v", r.commands)
	}
}
