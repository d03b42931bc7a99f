package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ichbintonywu/transaction-processor/config"
	"github.com/ichbintonywu/transaction-processor/internal/controller/dispatcher"
	"github.com/ichbintonywu/transaction-processor/internal/controller/restapi"
	"github.com/ichbintonywu/transaction-processor/internal/controller/worker/reclaim"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/embedding"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/internal/repo/persistent"
	"github.com/ichbintonywu/transaction-processor/internal/sink"
	"github.com/ichbintonywu/transaction-processor/internal/usecase/ingest"
	"github.com/ichbintonywu/transaction-processor/internal/usecase/query"
	"github.com/ichbintonywu/transaction-processor/pkg/httpserver"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
	"github.com/ichbintonywu/transaction-processor/pkg/postgres"
	"github.com/ichbintonywu/transaction-processor/pkg/redisclient"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Clients

	// redis: event log + four derived views
	rds, err := redisclient.New(ctx, cfg.Redis.Addr, redisclient.Password(cfg.Redis.Password))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - redisclient.New: %w", err))
	}
	defer rds.Close()

	// postgres: canonical document store
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// Repositories
	recencyRepo := persistent.NewRecencyRepo(rds.Client)
	transactionRepo := persistent.NewTransactionRepo(pg)
	spendingRepo := persistent.NewSpendingRepo(rds.Client)
	timeSeriesRepo := persistent.NewTimeSeriesRepo(rds.Client)
	vectorRepo := persistent.NewVectorRepo(rds.Client, cfg.Embedding.Dimension)

	embedder := embedding.NewClient(cfg.Embedding.Endpoint, cfg.Embedding.Dimension, cfg.Embedding.Timeout)

	// The vector index is created lazily; a missing RediSearch module only
	// degrades search, it must not block ingestion of the other views.
	if err := vectorRepo.EnsureIndex(ctx); err != nil {
		l.Warn("app - Run - vectorRepo.EnsureIndex: %v", err)
	}

	// Event log
	eventLog := stream.NewLog(rds.Client, cfg.Stream.Key, cfg.Stream.Group, cfg.Stream.DeadLetterKey)

	// Use-Cases

	// ingest: the fan-out order is a design invariant, not incidental
	ingestUseCase := ingest.New([]sink.Sink{
		sink.NewRecencySink(recencyRepo),
		sink.NewDocumentSink(transactionRepo),
		sink.NewSpendingSink(spendingRepo),
		sink.NewTimeSeriesSink(timeSeriesRepo),
		sink.NewSemanticSink(embedder, vectorRepo),
	})

	queryUseCase := query.New(
		recencyRepo,
		transactionRepo,
		spendingRepo,
		timeSeriesRepo,
		vectorRepo,
		embedder,
		cfg.Search.MinSimilarity,
		cfg.Search.QueryHint,
		l,
	)

	// Dispatcher
	dispatcherController := dispatcher.New(
		eventLog,
		ingestUseCase,
		l,
		cfg.Stream.Consumer,
		cfg.Stream.BatchSize,
		cfg.Stream.BlockTimeout,
		cfg.Dispatch.ApplyTimeout,
		cfg.Dispatch.RetryBackoff,
	)

	// Reclaim Worker
	reclaimWorker := reclaim.New(
		eventLog,
		ingestUseCase,
		l,
		cfg.Stream.Consumer,
		cfg.Reclaim.Interval,
		cfg.Reclaim.MinIdle,
		cfg.Reclaim.MaxDeliveries,
		cfg.Reclaim.BatchSize,
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, queryUseCase, eventLog, l)

	// Metrics listener
	metricsServer := &http.Server{Addr: ":" + cfg.Metrics.Port, Handler: metricsMux()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error(err, "app - Run - metricsServer.ListenAndServe")
		}
	}()

	// Start Components
	err = dispatcherController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - dispatcherController.Start: %w", err))
	}
	err = reclaimWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - reclaimWorker.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	_ = metricsServer.Shutdown(ctx)

	dShutdownCtx, dShutdownCancel := context.WithTimeout(ctx, cfg.Dispatch.ShutdownTimeout)
	defer dShutdownCancel()
	err = dispatcherController.Shutdown(dShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - dispatcherController.Shutdown: %w", err))
	}

	rShutdownCtx, rShutdownCancel := context.WithTimeout(ctx, cfg.Reclaim.ShutdownTimeout)
	defer rShutdownCancel()
	err = reclaimWorker.Shutdown(rShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - reclaimWorker.Shutdown: %w", err))
	}
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
