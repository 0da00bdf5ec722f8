package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okPing(context.Context) error { return nil }

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		postgres Pinger
		redis    Pinger
		want     int
		failing  string
	}{
		{"all healthy", PingFunc(okPing), PingFunc(okPing), http.StatusOK, ""},
		{"postgres down", down, PingFunc(okPing), http.StatusServiceUnavailable, "postgres"},
		{"redis down", PingFunc(okPing), down, http.StatusServiceUnavailable, "redis"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(
				Dependency{Name: "postgres", Pinger: tt.postgres},
				Dependency{Name: "redis", Pinger: tt.redis},
			)

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if len(body.Checks) != 2 {
				t.Fatalf("expected both checks reported, got %v", body.Checks)
			}
			for name, result := range body.Checks {
				if name == tt.failing && result != "connection refused" {
					t.Fatalf("expected %s to report the ping error, got %q", name, result)
				}
				if name != tt.failing && result != "ok" {
					t.Fatalf("expected %s ok, got %q", name, result)
				}
			}
		})
	}
}
