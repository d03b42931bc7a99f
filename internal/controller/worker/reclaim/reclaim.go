// Package reclaim sweeps the pending set for entries stuck without an
// acknowledgement: claimed but never applied to every view, typically after
// a consumer crash or a sink outage.
package reclaim

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/internal/metrics"
	"github.com/ichbintonywu/transaction-processor/internal/usecase"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

type (
	// PendingLog is the slice of the event-log contract the sweep needs.
	PendingLog interface {
		Pending(ctx context.Context, minIdle time.Duration, count int) ([]stream.PendingEntry, error)
		ClaimPending(ctx context.Context, consumer string, minIdle time.Duration, ids []string) ([]stream.Entry, error)
		DeadLetter(ctx context.Context, entry stream.Entry) error
		Ack(ctx context.Context, entryID string) error
	}
)

// Worker periodically re-claims entries idle beyond minIdle and replays them
// through the same ingest path the dispatcher uses. Entries that keep
// failing are moved to the dead-letter stream after maxDeliveries attempts,
// bounding redelivery.
type Worker struct {
	log    PendingLog
	ingest usecase.IngestUseCase
	logger logger.Interface

	consumer      string
	interval      time.Duration
	minIdle       time.Duration
	maxDeliveries int64
	batchSize     int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	log PendingLog,
	ingest usecase.IngestUseCase,
	l logger.Interface,
	consumer string,
	interval time.Duration,
	minIdle time.Duration,
	maxDeliveries int64,
	batchSize int,
) *Worker {
	return &Worker{
		log:           log,
		ingest:        ingest,
		logger:        l,
		consumer:      consumer,
		interval:      interval,
		minIdle:       minIdle,
		maxDeliveries: maxDeliveries,
		batchSize:     batchSize,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("reclaim Worker - Start - worker already started")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.sweep(w.ctx)
			}
		}
	}()

	return nil
}

func (w *Worker) sweep(ctx context.Context) {
	pending, err := w.log.Pending(ctx, w.minIdle, w.batchSize)
	if err != nil {
		w.logger.Error(err, "reclaim Worker - sweep - w.log.Pending")

		return
	}
	if len(pending) == 0 {
		return
	}

	exhausted, retryable := splitByDeliveries(pending, w.maxDeliveries)

	w.deadLetter(ctx, exhausted)
	w.retry(ctx, retryable)
}

func (w *Worker) deadLetter(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}

	// Claim first so the copy carries the entry values, then move it.
	entries, err := w.log.ClaimPending(ctx, w.consumer, w.minIdle, ids)
	if err != nil {
		w.logger.Error(err, "reclaim Worker - deadLetter - w.log.ClaimPending")

		return
	}

	for _, entry := range entries {
		if err := w.log.DeadLetter(ctx, entry); err != nil {
			w.logger.Error(err, fmt.Sprintf("reclaim Worker - deadLetter - entry %s", entry.ID))

			continue
		}

		metrics.EntriesDeadLettered.Inc()
		w.logger.Warn("reclaim Worker - entry %s dead-lettered after %d deliveries", entry.ID, w.maxDeliveries)
	}
}

func (w *Worker) retry(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}

	entries, err := w.log.ClaimPending(ctx, w.consumer, w.minIdle, ids)
	if err != nil {
		w.logger.Error(err, "reclaim Worker - retry - w.log.ClaimPending")

		return
	}

	for _, entry := range entries {
		if err := w.ingest.ProcessEntry(ctx, entry); err != nil {
			// Still pending; picked up again on a later sweep.
			w.logger.Error(err, fmt.Sprintf("reclaim Worker - retry - entry %s", entry.ID))

			continue
		}

		if err := w.log.Ack(ctx, entry.ID); err != nil {
			w.logger.Error(err, fmt.Sprintf("reclaim Worker - retry - w.log.Ack - entry %s", entry.ID))

			continue
		}

		metrics.EntriesReclaimed.Inc()
	}
}

// splitByDeliveries separates entry IDs that exhausted their delivery budget
// from those still worth retrying.
func splitByDeliveries(pending []stream.PendingEntry, maxDeliveries int64) (exhausted, retryable []string) {
	for _, p := range pending {
		if p.Deliveries >= maxDeliveries {
			exhausted = append(exhausted, p.ID)
		} else {
			retryable = append(retryable, p.ID)
		}
	}

	return exhausted, retryable
}

func (w *Worker) Shutdown(ctx context.Context) error {
	if !w.started.Load() {
		return nil
	}

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})

	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
