package dispatch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// Kind classifies why a dispatch failed.
type Kind int

const (
	KindRemoteRejected Kind = iota
	KindNotReady
	KindGuildNotFound
	KindPermissionDenied
)

func (k Kind) String() string {
	switch k {
	case KindNotReady:
		return "not_ready"
	case KindGuildNotFound:
		return "guild_not_found"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "remote_rejected"
	}
}

// Error is the only error type Dispatch returns.
type Error struct {
	Kind    Kind
	GuildID string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotReady:
		return "Bot is not ready"
	case KindGuildNotFound:
		return fmt.Sprintf("Guild with ID %s not found", e.GuildID)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err; errors that did not come from Dispatch
// are treated as remote rejections.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindRemoteRejected
}

// classifyRemote maps an error from the create call onto a Kind.
func classifyRemote(guildID string, err error) *Error {
	kind := KindRemoteRejected
	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		if rest.Response != nil && rest.Response.StatusCode == http.StatusForbidden {
			kind = KindPermissionDenied
		}
		if rest.Message != nil {
			switch rest.Message.Code {
			case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
				kind = KindPermissionDenied
			}
		}
	}
	return &Error{Kind: kind, GuildID: guildID, Err: err}
}
