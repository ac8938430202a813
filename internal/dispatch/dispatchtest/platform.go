// Package dispatchtest provides an in-memory Platform for tests.
package dispatchtest

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Platform records create calls and serves guilds from a fixed set.
type Platform struct {
	mu     sync.Mutex
	guilds map[string]*discordgo.Guild
	nextID int

	// Err, when set, is returned by every create call.
	Err   error
	Calls []*discordgo.GuildScheduledEventParams
}

func NewPlatform(guildIDs ...string) *Platform {
	p := &Platform{guilds: map[string]*discordgo.Guild{}, nextID: 1000}
	for _, id := range guildIDs {
		p.guilds[id] = &discordgo.Guild{ID: id, Name: "guild-" + id}
	}
	return p
}

func (p *Platform) Guild(guildID string) (*discordgo.Guild, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.guilds[guildID]
	if !ok {
		return nil, discordgo.ErrStateNotFound
	}
	return g, nil
}

func (p *Platform) GuildScheduledEventCreate(guildID string, params *discordgo.GuildScheduledEventParams, _ ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, params)
	if p.Err != nil {
		return nil, p.Err
	}
	p.nextID++
	ev := &discordgo.GuildScheduledEvent{
		ID:               strconv.Itoa(p.nextID),
		GuildID:          guildID,
		Name:             params.Name,
		Description:      params.Description,
		ScheduledEndTime: params.ScheduledEndTime,
		PrivacyLevel:     params.PrivacyLevel,
		EntityType:       params.EntityType,
		Status:           discordgo.GuildScheduledEventStatusScheduled,
	}
	if params.ScheduledStartTime != nil {
		ev.ScheduledStartTime = *params.ScheduledStartTime
	}
	if params.EntityMetadata != nil {
		ev.EntityMetadata = *params.EntityMetadata
	}
	return ev, nil
}

// LastID is the id handed out by the most recent successful create.
func (p *Platform) LastID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strconv.Itoa(p.nextID)
}

// Ready is a settable Readiness.
type Ready bool

func (r Ready) Ready() bool { return bool(r) }

// RESTError builds a discordgo REST error with the given status and API code.
func RESTError(status int, code int, message string) *discordgo.RESTError {
	return &discordgo.RESTError{
		Response:     &http.Response{StatusCode: status, Status: strconv.Itoa(status)},
		ResponseBody: []byte(`{"message":"` + message + `","code":` + strconv.Itoa(code) + `}`),
		Message:      &discordgo.APIErrorMessage{Code: code, Message: message},
	}
}
