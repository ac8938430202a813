package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"eventbridge/internal/discord"
)

func healthEngine(g SessionGate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &HealthHandler{Gate: g, Now: func() time.Time { return testNow }}
	h.Register(r)
	RegisterDocs(r)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestWebhookHealth(t *testing.T) {
	gate := &discord.Gate{}
	r := healthEngine(gate)

	var got HealthResponse
	w := get(r, "/webhook/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := HealthResponse{Status: "OK", Service: "Discord Event Webhook", Timestamp: "2026-03-01T12:00:00.000Z", BotReady: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	gate.MarkReady()
	_ = json.Unmarshal(get(r, "/webhook/health").Body.Bytes(), &got)
	if !got.BotReady {
		t.Fatalf("botReady=false after MarkReady")
	}
}

func TestReadyz(t *testing.T) {
	gate := &discord.Gate{}
	r := healthEngine(gate)

	if w := get(r, "/readyz"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503 while connecting", w.Code)
	}
	gate.MarkReady()
	if w := get(r, "/readyz"); w.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", w.Code)
	}
	gate.MarkDisconnected()
	w := get(r, "/readyz")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503 after disconnect", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "disconnected" {
		t.Fatalf("body=%v", body)
	}

	if w := get(r, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz=%d", w.Code)
	}
	if w := get(healthEngine(nil), "/readyz"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil gate status=%d", w.Code)
	}
}

func TestDocs(t *testing.T) {
	w := get(healthEngine(nil), "/docs")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "text/markdown; charset=utf-8" {
		t.Fatalf("status=%d type=%q", w.Code, w.Header().Get("Content-Type"))
	}
}
