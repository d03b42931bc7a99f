package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ichbintonywu/transaction-processor/config"
	"github.com/ichbintonywu/transaction-processor/internal/generator"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
	"github.com/ichbintonywu/transaction-processor/pkg/redisclient"
)

const _generatorShutdownTimeout = 5 * time.Second

// RunGenerator runs the producer process: synthesize transactions, append
// them to the event log.
func RunGenerator(cfg *config.GeneratorConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := logger.New(cfg.Log.Level)

	rds, err := redisclient.New(ctx, cfg.Redis.Addr, redisclient.Password(cfg.Redis.Password))
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunGenerator - redisclient.New: %w", err))
	}
	defer rds.Close()

	publisher := stream.NewPublisher(rds.Client, cfg.Stream.Key)

	gen := generator.New(
		publisher,
		l,
		cfg.Generator.Interval,
		cfg.Generator.Customers,
		cfg.Generator.TimeStep,
	)

	err = gen.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunGenerator - gen.Start: %w", err))
	}

	l.Info("generator - publishing to %s every %s", cfg.Stream.Key, cfg.Generator.Interval)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	s := <-interrupt
	l.Info("app - RunGenerator - signal: %s", s.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, _generatorShutdownTimeout)
	defer shutdownCancel()
	err = gen.Shutdown(shutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - RunGenerator - gen.Shutdown: %w", err))
	}
}
