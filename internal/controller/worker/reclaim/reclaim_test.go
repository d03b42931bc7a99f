package reclaim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

type fakePendingLog struct {
	pending []stream.PendingEntry
	values  map[string]map[string]interface{}

	deadLettered []string
	acked        []string
}

func (f *fakePendingLog) Pending(_ context.Context, _ time.Duration, _ int) ([]stream.PendingEntry, error) {
	return f.pending, nil
}

func (f *fakePendingLog) ClaimPending(_ context.Context, _ string, _ time.Duration, ids []string) ([]stream.Entry, error) {
	entries := make([]stream.Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, stream.Entry{ID: id, Values: f.values[id]})
	}

	return entries, nil
}

func (f *fakePendingLog) DeadLetter(_ context.Context, entry stream.Entry) error {
	f.deadLettered = append(f.deadLettered, entry.ID)

	return nil
}

func (f *fakePendingLog) Ack(_ context.Context, entryID string) error {
	f.acked = append(f.acked, entryID)

	return nil
}

type stubIngest struct {
	failIDs map[string]bool
	seen    []string
}

func (s *stubIngest) ProcessEntry(_ context.Context, entry stream.Entry) error {
	s.seen = append(s.seen, entry.ID)
	if s.failIDs[entry.ID] {
		return errors.New("sink unavailable")
	}

	return nil
}

func wireValues(id string) map[string]interface{} {
	tx := entity.Transaction{
		TransactionID: id,
		CustomerID:    "cust_001",
		Amount:        5,
		Merchant:      "Uber",
		Category:      entity.Transport,
		Timestamp:     1000,
		Location:      "Boston, MA",
		CardLast4:     "9999",
	}

	return tx.WireValues()
}

func newWorker(log *fakePendingLog, ingest *stubIngest, maxDeliveries int64) *Worker {
	return New(
		log,
		ingest,
		logger.New("error"),
		"reclaimer-1",
		time.Minute,
		time.Second,
		maxDeliveries,
		100,
	)
}

func TestSweepDeadLettersExhaustedEntries(t *testing.T) {
	log := &fakePendingLog{
		pending: []stream.PendingEntry{
			{ID: "1-0", Deliveries: 5},
			{ID: "2-0", Deliveries: 2},
		},
		values: map[string]map[string]interface{}{
			"1-0": wireValues("tx_1"),
			"2-0": wireValues("tx_2"),
		},
	}
	ingest := &stubIngest{}

	w := newWorker(log, ingest, 5)
	w.sweep(context.Background())

	if len(log.deadLettered) != 1 || log.deadLettered[0] != "1-0" {
		t.Errorf("deadLettered = %v, want [1-0]", log.deadLettered)
	}

	if len(ingest.seen) != 1 || ingest.seen[0] != "2-0" {
		t.Errorf("retried = %v, want [2-0]", ingest.seen)
	}
	if len(log.acked) != 1 || log.acked[0] != "2-0" {
		t.Errorf("acked = %v, want [2-0]", log.acked)
	}
}

func TestSweepLeavesFailedRetryPending(t *testing.T) {
	log := &fakePendingLog{
		pending: []stream.PendingEntry{{ID: "1-0", Deliveries: 1}},
		values:  map[string]map[string]interface{}{"1-0": wireValues("tx_1")},
	}
	ingest := &stubIngest{failIDs: map[string]bool{"1-0": true}}

	w := newWorker(log, ingest, 5)
	w.sweep(context.Background())

	if len(log.acked) != 0 {
		t.Errorf("acked = %v, want none; a failed replay must stay pending", log.acked)
	}
	if len(log.deadLettered) != 0 {
		t.Errorf("deadLettered = %v, want none below the delivery budget", log.deadLettered)
	}
}

func TestSweepEmptyPendingSet(t *testing.T) {
	log := &fakePendingLog{}
	ingest := &stubIngest{}

	w := newWorker(log, ingest, 5)
	w.sweep(context.Background())

	if len(ingest.seen) != 0 || len(log.acked) != 0 || len(log.deadLettered) != 0 {
		t.Error("an empty pending set must be a no-op")
	}
}

func TestSplitByDeliveries(t *testing.T) {
	pending := []stream.PendingEntry{
		{ID: "1-0", Deliveries: 1},
		{ID: "2-0", Deliveries: 5},
		{ID: "3-0", Deliveries: 7},
		{ID: "4-0", Deliveries: 4},
	}

	exhausted, retryable := splitByDeliveries(pending, 5)

	if len(exhausted) != 2 || exhausted[0] != "2-0" || exhausted[1] != "3-0" {
		t.Errorf("exhausted = %v, want [2-0 3-0]", exhausted)
	}
	if len(retryable) != 2 || retryable[0] != "1-0" || retryable[1] != "4-0" {
		t.Errorf("retryable = %v, want [1-0 4-0]", retryable)
	}
}
