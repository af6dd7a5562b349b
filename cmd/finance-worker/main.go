// cmd/finance-worker/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ariofinance/internal/audit"
	"ariofinance/internal/common/config"
	"ariofinance/internal/common/database"
	"ariofinance/internal/common/logger"
	"ariofinance/internal/common/metrics"
	"ariofinance/internal/common/observability"
	"ariofinance/internal/store"

	rb "ariofinance/internal/workers/bankbook/refresh-bankbook"
	rl "ariofinance/internal/workers/risk/rescore-loans"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.Wrap(zapLog)

	zapLog.Info("Starting finance worker...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("finance-worker")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rd *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rd, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rd.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rd.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Build stores and collaborators ---
	loanStore := store.NewLoanStore(pg.DB)
	bankbookStore := store.NewBankbookStore(pg.DB)
	summaryCache := store.NewSummaryCache(rd.Client,
		time.Duration(cfg.Ledger.SummaryTTLSeconds)*time.Second)
	auditor := audit.NewIndexer(es.Client, cfg.Database.Elasticsearch.AuditIndex)

	// --- Metrics / health endpoint ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		zapLog.Info("Metrics endpoint listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup

	// --- Task: rescore-loans ---
	if config.IsTaskEnabled(cfg, rl.TaskType) {
		taskCfg := config.GetTaskConfig(cfg, rl.TaskType)
		handler := rl.NewHandler(
			&rl.Config{
				Timeout:    config.GetDuration(taskCfg.Timeout),
				BatchSize:  cfg.Risk.BatchSize,
				StaleAfter: time.Duration(cfg.Risk.StaleAfterSeconds) * time.Second,
			},
			loanStore, auditor, summaryCache, log,
		)

		wg.Add(1)
		go runPeriodically(ctx, &wg, zapLog, obs, rl.TaskType, taskCfg,
			func(runCtx context.Context) error {
				_, err := handler.Execute(runCtx, &rl.Input{})
				return err
			})
	}

	// --- Task: refresh-bankbook ---
	if config.IsTaskEnabled(cfg, rb.TaskType) {
		taskCfg := config.GetTaskConfig(cfg, rb.TaskType)
		handler := rb.NewHandler(
			&rb.Config{
				Timeout:    config.GetDuration(taskCfg.Timeout),
				SummaryTTL: time.Duration(cfg.Ledger.SummaryTTLSeconds) * time.Second,
			},
			bankbookStore, summaryCache, log,
		)

		wg.Add(1)
		go runPeriodically(ctx, &wg, zapLog, obs, rb.TaskType, taskCfg,
			func(runCtx context.Context) error {
				_, err := handler.Execute(runCtx)
				return err
			})
	}

	zapLog.Info("All workers started. Press Ctrl+C to exit.")

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining workers...")
	wg.Wait()
	zapLog.Info("Finance worker stopped")
}

// runPeriodically drives one task on its configured interval until the
// context is cancelled. The first run fires immediately.
func runPeriodically(
	ctx context.Context,
	wg *sync.WaitGroup,
	log *zap.Logger,
	obs *observability.Observability,
	taskType string,
	taskCfg config.TaskConfig,
	run func(ctx context.Context) error,
) {
	defer wg.Done()

	interval := time.Duration(taskCfg.IntervalSeconds) * time.Second
	timeout := config.GetDuration(taskCfg.Timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Worker task scheduled",
		zap.String("task", taskType),
		zap.Duration("interval", interval),
	)

	runOnce := func() {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		err := run(runCtx)
		elapsed := time.Since(start)

		status := "success"
		if err != nil {
			status = "error"
			log.Error("task run failed",
				zap.String("task", taskType),
				zap.Error(err),
			)
		}

		metrics.TaskDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		obs.RecordTaskRun(ctx, taskType, status)
		obs.RecordTaskDuration(ctx, taskType, elapsed, status)
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
