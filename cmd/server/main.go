package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/goholdings/internal/adapter/http"
	"github.com/iho/goholdings/internal/adapter/http/handler"
	"github.com/iho/goholdings/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/goholdings/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goholdings/internal/adapter/repository/redis"
	"github.com/iho/goholdings/internal/infrastructure/config"
	"github.com/iho/goholdings/internal/infrastructure/logger"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
	"github.com/iho/goholdings/internal/infrastructure/postgres"
	"github.com/iho/goholdings/internal/infrastructure/redis"
	"github.com/iho/goholdings/internal/infrastructure/scheduler"
	"github.com/iho/goholdings/internal/infrastructure/taskrunner"
	"github.com/iho/goholdings/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "goholdings-server"})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	retryPolicy := postgresRepo.DefaultRetryPolicy()
	retryPolicy.MaxRetries = cfg.DatabaseMaxRetries
	txManager := postgresRepo.NewTxManager(pool, postgresRepo.NewRetrier(retryPolicy, m, log))
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	splitRepo := postgresRepo.NewSplitRepository(pool)
	currencyRepo := redisRepo.NewCurrencyRepository(
		postgresRepo.NewCurrencyRepository(pool),
		redisClient,
		cfg.CurrencyPairCacheTTL,
		m,
		log,
	)
	holdingRepo := postgresRepo.NewSecurityHoldingRepository(pool, txManager)
	balanceRepo := postgresRepo.NewCashBalanceRepository(pool, txManager)
	depositRepo := postgresRepo.NewCashDepositRepository(pool, txManager)
	taskRepo := postgresRepo.NewTaskRepository(pool)
	locker := redisRepo.NewScopeLocker(redisClient, m)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	currencies := usecase.NewCurrencyService(currencyRepo)
	splits := usecase.NewSplitService(splitRepo, cfg.RebuildWorkers)
	securities := usecase.NewSecurityHoldingUseCase(accountRepo, transactionRepo, holdingRepo, splits, currencies, cfg.RebuildWorkers, m, log)
	balances := usecase.NewCashBalanceUseCase(accountRepo, transactionRepo, balanceRepo, currencies, cfg.RebuildWorkers, m, log)
	deposits := usecase.NewCashDepositUseCase(accountRepo, transactionRepo, depositRepo, currencies, cfg.RebuildWorkers, m, log)
	dispatcher := usecase.NewRebuildDispatcher(accountRepo, securities, balances, deposits, locker, cfg.ScopeLockTTL, m, log)
	taskUC := usecase.NewTaskUseCase(taskRepo, accountRepo, idGen)

	runner := taskrunner.New(taskrunner.Config{
		Tasks:      taskRepo,
		Dispatcher: dispatcher,
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.TaskBatchSize,
		Interval:   cfg.TaskPollInterval,
		Retention:  cfg.TaskRetention,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst)

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RebuildSchedule, scheduler.NewFullRebuildJob(taskUC, cfg.RebuildTenants, log)); err != nil {
		return err
	}
	if err := sched.AddJob("@every 10m", scheduler.NewFuncJob("rate_limiter_cleanup", func() error {
		rateLimiter.Cleanup(time.Hour)
		return nil
	})); err != nil {
		return err
	}

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(taskUC)
	healthHandler := handler.NewHealthHandler(
		handler.Dependency{Name: "postgres", Pinger: handler.PingFunc(pool.Ping)},
		handler.Dependency{Name: "redis", Pinger: handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})},
	)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TaskHandler:   taskHandler,
		HealthHandler: healthHandler,
		Logger:        log,
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
		RateLimiter:   rateLimiter,
	})

	server := newHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := runner.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("task runner: %w", err)
		}
		return nil
	})

	sched.Start()

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		sched.Stop()

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
