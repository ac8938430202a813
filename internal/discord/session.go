package discord

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DefaultGuildWait caps how long Ready waits for the initial GUILD_CREATE burst.
const DefaultGuildWait = 15 * time.Second

// Bot owns the gateway session and drives the Gate from its lifecycle events.
type Bot struct {
	Session  *discordgo.Session
	Gate     *Gate
	Logger   *zap.Logger
	AppID    string
	Commands *Commands

	// GuildWait overrides DefaultGuildWait when positive.
	GuildWait time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New builds a session for a bot token. The session is not opened.
func New(token, appID string, logger *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord bot token is empty")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildScheduledEvents
	s.StateEnabled = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{Session: s, Gate: &Gate{}, Logger: logger, AppID: appID}, nil
}

// Open registers event handlers, connects to the gateway and refreshes slash commands.
func (b *Bot) Open() error {
	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(b.onGuildCreate)
	b.Session.AddHandler(b.onDisconnect)
	b.Session.AddHandler(b.onResumed)
	if b.Commands != nil {
		b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			b.Commands.Handle(i.Interaction)
		})
	}
	if err := b.Session.Open(); err != nil {
		return err
	}

	if b.Commands != nil && b.AppID != "" {
		b.Logger.Info("refreshing application commands")
		if err := b.Commands.Register(b.Session, b.AppID); err != nil {
			b.Logger.Error("register application commands failed", zap.Error(err))
		} else {
			b.Logger.Info("application commands reloaded", zap.Int("count", len(Definitions)))
		}
	}
	return nil
}

func (b *Bot) Close() error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	b.Gate.MarkDisconnected()
	return b.Session.Close()
}

// Guild looks a guild up in the session state cache. No REST fallback.
func (b *Bot) Guild(guildID string) (*discordgo.Guild, error) {
	return b.Session.State.Guild(guildID)
}

func (b *Bot) GuildScheduledEventCreate(guildID string, params *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error) {
	return b.Session.GuildScheduledEventCreate(guildID, params, options...)
}

// Status is a point-in-time view of the session.
type Status struct {
	State      SessionState
	Guilds     int
	Latency    time.Duration
	ReadySince time.Time
}

func (b *Bot) Status() Status {
	st := Status{State: b.Gate.State(), ReadySince: b.Gate.ReadySince()}
	if b.Session == nil {
		return st
	}
	st.Latency = b.Session.HeartbeatLatency()
	if b.Session.State != nil {
		b.Session.State.RLock()
		st.Guilds = len(b.Session.State.Guilds)
		b.Session.State.RUnlock()
	}
	return st
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.Logger.Info("Bot logged in", zap.String("user", r.User.String()), zap.Int("guilds", len(r.Guilds)))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = make(map[string]struct{}, len(r.Guilds))
	for _, g := range r.Guilds {
		if g.Unavailable {
			b.pending[g.ID] = struct{}{}
		}
	}
	if len(b.pending) == 0 {
		b.Gate.MarkReady()
		return
	}
	wait := b.GuildWait
	if wait <= 0 {
		wait = DefaultGuildWait
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(wait, func() {
		b.mu.Lock()
		left := len(b.pending)
		b.pending = nil
		b.mu.Unlock()
		if left > 0 {
			b.Logger.Warn("guild cache incomplete, marking ready anyway", zap.Int("missing", left))
		}
		b.Gate.MarkReady()
	})
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return
	}
	delete(b.pending, g.ID)
	if len(b.pending) == 0 {
		b.pending = nil
		if b.timer != nil {
			b.timer.Stop()
		}
		b.Gate.MarkReady()
	}
}

func (b *Bot) onDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	b.Logger.Warn("discord gateway disconnected")
	b.Gate.MarkDisconnected()
}

func (b *Bot) onResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	b.Logger.Info("discord gateway resumed")
	b.Gate.MarkReady()
}
