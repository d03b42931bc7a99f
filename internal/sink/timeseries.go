package sink

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/repo"
)

// TimeSeriesSink appends the (timestamp, amount) sample. Idempotent through
// the series' overwrite-by-timestamp duplicate policy.
type TimeSeriesSink struct {
	series repo.TimeSeriesRepo
}

func NewTimeSeriesSink(series repo.TimeSeriesRepo) *TimeSeriesSink {
	return &TimeSeriesSink{series: series}
}

func (s *TimeSeriesSink) Name() string {
	return "timeseries"
}

func (s *TimeSeriesSink) Apply(ctx context.Context, tx *entity.Transaction) error {
	err := s.series.Add(ctx, tx.Timestamp, tx.Amount)
	if err != nil {
		return fmt.Errorf("TimeSeriesSink - Apply - s.series.Add: %w", err)
	}

	return nil
}
