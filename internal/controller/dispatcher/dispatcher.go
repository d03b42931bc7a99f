// Package dispatcher owns the consume-apply-acknowledge loop over the event
// log.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/internal/metrics"
	"github.com/ichbintonywu/transaction-processor/internal/usecase"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

// Dispatcher claims batches from the event log, applies each entry to every
// derived view through the ingest use-case, and acknowledges an entry only
// after the full fan-out succeeded. A failed entry stays pending for
// redelivery; the loop moves on to the next entry.
type Dispatcher struct {
	log    EventLog
	ingest usecase.IngestUseCase
	logger logger.Interface

	consumer     string
	batchSize    int
	blockTimeout time.Duration
	applyTimeout time.Duration
	retryBackoff time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	log EventLog,
	ingest usecase.IngestUseCase,
	l logger.Interface,
	consumer string,
	batchSize int,
	blockTimeout time.Duration,
	applyTimeout time.Duration,
	retryBackoff time.Duration,
) *Dispatcher {
	return &Dispatcher{
		log:          log,
		ingest:       ingest,
		logger:       l,
		consumer:     consumer,
		batchSize:    batchSize,
		blockTimeout: blockTimeout,
		applyTimeout: applyTimeout,
		retryBackoff: retryBackoff,
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Dispatcher - Start - dispatcher already started")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	// Connectivity or permission problems here abort startup; a group that
	// already exists does not.
	if err := d.log.EnsureGroup(d.ctx); err != nil {
		return fmt.Errorf("Dispatcher - Start - d.log.EnsureGroup: %w", err)
	}

	d.wg.Add(1)
	go d.loop()

	return nil
}

// loop is sequential: one claim, then each entry applied to every sink in
// order, then acknowledged. The stop signal is observed between iterations;
// an in-flight batch completes (or is left unacknowledged) before exit.
func (d *Dispatcher) loop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		entries, err := d.log.Claim(d.ctx, d.consumer, d.batchSize, d.blockTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}

			d.logger.Error(err, "Dispatcher - loop - d.log.Claim")
			d.sleep(d.retryBackoff)

			continue
		}

		for _, entry := range entries {
			d.processEntry(entry)
		}
	}
}

func (d *Dispatcher) processEntry(entry stream.Entry) {
	// Shielded from cancellation so a batch claimed before shutdown is never
	// acknowledged in a partially-applied state.
	applyCtx, applyCancel := context.WithTimeout(context.WithoutCancel(d.ctx), d.applyTimeout)
	defer applyCancel()

	err := d.ingest.ProcessEntry(applyCtx, entry)
	if err != nil {
		metrics.EntriesFailed.Inc()
		d.logger.Error(err, fmt.Sprintf("Dispatcher - processEntry - entry %s left pending", entry.ID))

		return
	}

	err = d.log.Ack(applyCtx, entry.ID)
	if err != nil {
		// The views are updated; the entry will be redelivered and the
		// idempotent sinks absorb the replay.
		d.logger.Error(err, fmt.Sprintf("Dispatcher - processEntry - d.log.Ack - entry %s", entry.ID))

		return
	}

	metrics.EntriesProcessed.Inc()
}

func (d *Dispatcher) sleep(duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-d.ctx.Done():
	}
}

func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if !d.started.Load() {
		return nil
	}

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})

	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
