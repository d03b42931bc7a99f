package persistent

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/redis/go-redis/v9"
)

const timeseriesKey = "spending:timeseries"

// TimeSeriesRepo keeps (timestamp, amount) samples. The series is created
// with DUPLICATE_POLICY LAST, so a redelivered event overwrites its own
// sample: timestamp and amount come from the immutable event, which makes
// the overwrite idempotent.
type TimeSeriesRepo struct {
	client *redis.Client
}

func NewTimeSeriesRepo(client *redis.Client) *TimeSeriesRepo {
	return &TimeSeriesRepo{client: client}
}

func (r *TimeSeriesRepo) Add(ctx context.Context, timestamp int64, amount float64) error {
	err := r.client.TSAddWithArgs(ctx, timeseriesKey, timestamp, amount, &redis.TSOptions{
		DuplicatePolicy: "LAST",
	}).Err()
	if err != nil {
		return fmt.Errorf("TimeSeriesRepo - Add - r.client.TSAddWithArgs: %w", err)
	}

	return nil
}

// Range returns the samples with startMs <= timestamp <= endMs, ascending.
func (r *TimeSeriesRepo) Range(ctx context.Context, startMs, endMs int64) ([]entity.Sample, error) {
	points, err := r.client.TSRange(ctx, timeseriesKey, int(startMs), int(endMs)).Result()
	if err != nil {
		return nil, fmt.Errorf("TimeSeriesRepo - Range - r.client.TSRange: %w", err)
	}

	samples := make([]entity.Sample, 0, len(points))
	for _, p := range points {
		samples = append(samples, entity.Sample{
			Timestamp: p.Timestamp,
			Amount:    p.Value,
		})
	}

	return samples, nil
}

// Latest returns the timestamp of the most recent sample, 0 when the series
// is empty or absent.
func (r *TimeSeriesRepo) Latest(ctx context.Context) (int64, error) {
	ready, err := r.Ready(ctx)
	if err != nil {
		return 0, err
	}
	if !ready {
		return 0, nil
	}

	last, err := r.client.TSGet(ctx, timeseriesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("TimeSeriesRepo - Latest - r.client.TSGet: %w", err)
	}

	return last.Timestamp, nil
}

func (r *TimeSeriesRepo) Ready(ctx context.Context) (bool, error) {
	exists, err := r.client.Exists(ctx, timeseriesKey).Result()
	if err != nil {
		return false, fmt.Errorf("TimeSeriesRepo - Ready - r.client.Exists: %w", err)
	}

	return exists > 0, nil
}
