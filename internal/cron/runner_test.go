package cronrunner

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"eventbridge/internal/discord"
)

func TestRunner_RunsJobWithBaseContext(t *testing.T) {
	type key struct{}
	base := context.WithValue(context.Background(), key{}, "base")
	r := New(nil, base)

	got := make(chan any, 1)
	if _, err := r.Add("@every 1s", func(ctx context.Context) {
		select {
		case got <- ctx.Value(key{}):
		default:
		}
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("len=%d", r.Len())
	}
	r.Start()
	defer r.Stop()

	select {
	case v := <-got:
		if v != "base" {
			t.Fatalf("ctx value=%v", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestRunner_RejectsBadSpec(t *testing.T) {
	r := New(zap.NewNop(), context.Background())
	if _, err := r.Add("every now and then", func(context.Context) {}); err == nil {
		t.Fatalf("expected parse error")
	}
}

type fixedStatus discord.Status

func (f fixedStatus) Status() discord.Status { return discord.Status(f) }

func TestStatusReport(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	StatusReport(fixedStatus{State: discord.StateReady, Guilds: 3, Latency: 40 * time.Millisecond, ReadySince: time.Now().Add(-time.Minute)}, logger)(context.Background())
	StatusReport(fixedStatus{State: discord.StateDisconnected}, logger)(context.Background())

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[0].ContextMap()["guilds"] != int64(3) {
		t.Fatalf("first=%+v", entries[0].ContextMap())
	}
	if _, ok := entries[0].ContextMap()["ready_for"]; !ok {
		t.Fatalf("ready_for missing")
	}
	if entries[1].Level != zap.WarnLevel || entries[1].ContextMap()["state"] != "disconnected" {
		t.Fatalf("second=%+v", entries[1].ContextMap())
	}
}
