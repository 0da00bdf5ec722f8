package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigInvalidURL(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:       1,
		MinConns:       0,
		ConnectTimeout: 2 * time.Second,
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestParsePoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		max     int
		min     int
		wantMax int32
		wantMin int32
		wantApp string
	}{
		{"limits applied", "postgres://u:p@localhost:5432/db", 10, 2, 10, 2, applicationName},
		{"min clamped to max", "postgres://u:p@localhost:5432/db", 3, 8, 3, 3, applicationName},
		{"application name kept", "postgres://u:p@localhost:5432/db?application_name=worker", 4, 1, 4, 1, "worker"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			config, err := parsePoolConfig(PoolConfig{DatabaseURL: tt.url, MaxConns: tt.max, MinConns: tt.min})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.MaxConns != tt.wantMax || config.MinConns != tt.wantMin {
				t.Fatalf("got max=%d min=%d, want max=%d min=%d", config.MaxConns, config.MinConns, tt.wantMax, tt.wantMin)
			}
			if got := config.ConnConfig.RuntimeParams["application_name"]; got != tt.wantApp {
				t.Fatalf("expected application_name %q, got %q", tt.wantApp, got)
			}
		})
	}
}
