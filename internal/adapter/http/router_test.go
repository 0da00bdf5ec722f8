package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/adapter/http/handler"
	apimiddleware "github.com/iho/goholdings/internal/adapter/http/middleware"
	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

type recordingTasks struct {
	enqueued []domain.RebuildTask
}

func (s *recordingTasks) Enqueue(ctx context.Context, task domain.RebuildTask) (*domain.RebuildTask, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	task.ID = "task-1"
	s.enqueued = append(s.enqueued, task)
	return &task, nil
}

func (s *recordingTasks) EnqueueTenantRebuilds(ctx context.Context, tenantIDs []string) ([]*domain.RebuildTask, error) {
	return nil, nil
}

func (s *recordingTasks) GetTask(ctx context.Context, id string) (*domain.RebuildTask, error) {
	return nil, domain.ErrTaskNotFound
}

func ok(context.Context) error { return nil }

func newRouterConfig(tasks handler.TaskService, opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		TaskHandler:   handler.NewTaskHandler(tasks),
		HealthHandler: handler.NewHealthHandler(handler.Dependency{Name: "postgres", Pinger: handler.PingFunc(ok)}),
		Logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(&recordingTasks{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RoutesTriggers(t *testing.T) {
	tests := []struct {
		path string
		body string
		kind domain.TaskKind
	}{
		{"/api/v1/tenants/t1/rebuild", "", domain.TaskTenantFull},
		{"/api/v1/tenants/t1/rate-corrections", `{"currencies":["USD"],"from_date":"2024-01-01"}`, domain.TaskRateCorrection},
		{"/api/v1/securities/rebuild", `{"account_id":"sa","instrument_id":"i"}`, domain.TaskSecurityScope},
		{"/api/v1/instruments/i1/rebuild", "", domain.TaskInstrumentSplit},
		{"/api/v1/cash-accounts/ca-1/rebuild", "", domain.TaskCashAccount},
		{"/api/v1/tasks", `{"kind":"tenant_full","tenant_id":"t1"}`, domain.TaskTenantFull},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			tasks := &recordingTasks{}
			router := NewRouter(newRouterConfig(tasks))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			if rec.Code != http.StatusAccepted {
				t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
			}
			if len(tasks.enqueued) != 1 || tasks.enqueued[0].Kind != tt.kind {
				t.Fatalf("expected one %s task, got %+v", tt.kind, tasks.enqueued)
			}
		})
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(&recordingTasks{}, func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cash-accounts/ca-1/rebuild", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusAccepted {
		t.Fatalf("expected first request to succeed, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	router := NewRouter(newRouterConfig(&recordingTasks{}, func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.Gatherer = reg
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "goholdings_http_requests_total") {
		t.Fatalf("expected http metrics in exposition")
	}

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/health", "200")); got != 1 {
		t.Fatalf("expected one /health request recorded, got %v", got)
	}
}
