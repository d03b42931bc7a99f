// Package ingest fans one claimed log entry out to every derived view.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/internal/metrics"
	"github.com/ichbintonywu/transaction-processor/internal/sink"
)

// IngestUseCase applies entries to the sinks in a fixed order, so that
// partial-failure effects are reproducible: recency, document, spending,
// timeseries, semantic.
type IngestUseCase struct {
	sinks []sink.Sink
}

func New(sinks []sink.Sink) *IngestUseCase {
	return &IngestUseCase{sinks: sinks}
}

// ProcessEntry decodes the wire map once and applies every sink in order,
// stopping at the first failure. The caller decides what to do with the
// entry; this never acknowledges anything.
func (uc *IngestUseCase) ProcessEntry(ctx context.Context, entry stream.Entry) error {
	started := time.Now()

	tx, err := entity.ParseTransaction(entry.Values)
	if err != nil {
		return fmt.Errorf("IngestUseCase - ProcessEntry - entity.ParseTransaction: %w", err)
	}

	for _, s := range uc.sinks {
		if err := s.Apply(ctx, tx); err != nil {
			metrics.SinkFailures.WithLabelValues(s.Name()).Inc()

			return fmt.Errorf("IngestUseCase - ProcessEntry - sink %s: %w", s.Name(), err)
		}
	}

	metrics.EntryApplyDuration.Observe(float64(time.Since(started).Milliseconds()))

	return nil
}
