package discord

import (
	"sync/atomic"
	"time"
)

// SessionState is the lifecycle position of the gateway session.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateReady
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Gate tracks whether the session can serve requests. Only session event
// handlers write to it; everything else reads.
type Gate struct {
	state   atomic.Int32
	readyAt atomic.Int64
}

func (g *Gate) Ready() bool {
	return g != nil && SessionState(g.state.Load()) == StateReady
}

func (g *Gate) State() SessionState {
	if g == nil {
		return StateConnecting
	}
	return SessionState(g.state.Load())
}

// ReadySince returns when the gate last became ready, zero if never.
func (g *Gate) ReadySince() time.Time {
	if g == nil {
		return time.Time{}
	}
	ns := g.readyAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

func (g *Gate) MarkReady() {
	if SessionState(g.state.Swap(int32(StateReady))) != StateReady {
		g.readyAt.Store(time.Now().UnixNano())
	}
}

func (g *Gate) MarkDisconnected() {
	g.state.Store(int32(StateDisconnected))
}
