package discord

import "testing"

func TestGate_Transitions(t *testing.T) {
	var g Gate
	if g.Ready() || g.State() != StateConnecting {
		t.Fatalf("new gate state=%s", g.State())
	}
	if !g.ReadySince().IsZero() {
		t.Fatalf("ReadySince should be zero before ready")
	}

	g.MarkReady()
	if !g.Ready() || g.State() != StateReady {
		t.Fatalf("after ready state=%s", g.State())
	}
	first := g.ReadySince()
	if first.IsZero() {
		t.Fatalf("ReadySince not recorded")
	}

	g.MarkReady()
	if !g.ReadySince().Equal(first) {
		t.Fatalf("repeated ready must not move ReadySince")
	}

	g.MarkDisconnected()
	if g.Ready() || g.State() != StateDisconnected {
		t.Fatalf("after disconnect state=%s", g.State())
	}

	g.MarkReady()
	if !g.Ready() {
		t.Fatalf("gate should recover on resume")
	}
}

func TestGate_Nil(t *testing.T) {
	var g *Gate
	if g.Ready() {
		t.Fatalf("nil gate must not be ready")
	}
	if g.State() != StateConnecting {
		t.Fatalf("nil gate state=%s", g.State())
	}
}
