package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubNotifier struct {
	name  string
	err   error
	calls int
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Notify(ctx context.Context, _ EventCreated) error {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	return s.err
}

func sample() EventCreated {
	return EventCreated{
		GuildID:            "111111111111111111",
		EventID:            "222222222222222222",
		Name:               "Launch",
		ScheduledStartTime: time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC),
	}
}

func TestFanout_ContinuesAfterFailure(t *testing.T) {
	a := &stubNotifier{name: "a", err: errors.New("boom")}
	b := &stubNotifier{name: "b"}
	f := &Fanout{Notifiers: []Notifier{a, b}}

	err := f.Notify(context.Background(), sample())
	if err == nil || !strings.Contains(err.Error(), "a: boom") {
		t.Fatalf("err=%v want a: boom", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("calls a=%d b=%d", a.calls, b.calls)
	}
}

func TestFanout_Empty(t *testing.T) {
	var f *Fanout
	if err := f.Notify(context.Background(), sample()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := (&Fanout{}).Notify(context.Background(), sample()); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestWebhookSender(t *testing.T) {
	var got WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := WebhookSender{URL: srv.URL, HTTP: srv.Client()}
	if err := s.Notify(context.Background(), sample()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Event != "scheduled_event.created" || got.Data.EventID != "222222222222222222" {
		t.Fatalf("payload=%+v", got)
	}
	if !got.Data.ScheduledStartTime.Equal(sample().ScheduledStartTime) {
		t.Fatalf("start=%s", got.Data.ScheduledStartTime)
	}
}

func TestWebhookSender_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := WebhookSender{URL: srv.URL}.Notify(context.Background(), sample())
	var he *httpError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadGateway {
		t.Fatalf("err=%v want http 502", err)
	}

	if err := (WebhookSender{}).Notify(context.Background(), sample()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
