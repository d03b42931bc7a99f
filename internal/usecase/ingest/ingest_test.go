package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/internal/sink"
	"github.com/ichbintonywu/transaction-processor/internal/usecase/ingest"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

type recordingSink struct {
	name    string
	err     error
	applied *[]string
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Apply(_ context.Context, _ *entity.Transaction) error {
	*s.applied = append(*s.applied, s.name)

	return s.err
}

func testEntry() stream.Entry {
	tx := entity.Transaction{
		TransactionID: "tx_1",
		CustomerID:    "cust_001",
		Amount:        42.00,
		Merchant:      "Delta",
		Category:      entity.Travel,
		Timestamp:     1000,
		Location:      "Atlanta, GA",
		CardLast4:     "1111",
	}

	return stream.Entry{ID: "1-0", Values: tx.WireValues()}
}

func TestProcessEntryAppliesSinksInOrder(t *testing.T) {
	var applied []string
	uc := ingest.New([]sink.Sink{
		&recordingSink{name: "recency", applied: &applied},
		&recordingSink{name: "document", applied: &applied},
		&recordingSink{name: "spending", applied: &applied},
	})

	if err := uc.ProcessEntry(context.Background(), testEntry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"recency", "document", "spending"}
	if len(applied) != len(want) {
		t.Fatalf("applied = %v, want %v", applied, want)
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Fatalf("applied = %v, want %v", applied, want)
		}
	}
}

func TestProcessEntryStopsAtFirstFailure(t *testing.T) {
	sinkErr := errors.New("view down")

	var applied []string
	uc := ingest.New([]sink.Sink{
		&recordingSink{name: "recency", applied: &applied},
		&recordingSink{name: "document", applied: &applied, err: sinkErr},
		&recordingSink{name: "spending", applied: &applied},
	})

	err := uc.ProcessEntry(context.Background(), testEntry())
	if !errors.Is(err, sinkErr) {
		t.Fatalf("err = %v, want wrapped %v", err, sinkErr)
	}
	if !strings.Contains(err.Error(), "document") {
		t.Errorf("error should name the failed sink, got %q", err)
	}

	if len(applied) != 2 {
		t.Errorf("later sinks must not run after a failure, applied = %v", applied)
	}
}

func TestProcessEntryRejectsMalformedEntry(t *testing.T) {
	var applied []string
	uc := ingest.New([]sink.Sink{
		&recordingSink{name: "recency", applied: &applied},
	})

	entry := stream.Entry{ID: "1-0", Values: map[string]interface{}{"amount": "12.00"}}

	err := uc.ProcessEntry(context.Background(), entry)
	if !errors.Is(err, errs.ErrMalformedEvent) {
		t.Fatalf("err = %v, want ErrMalformedEvent", err)
	}

	if len(applied) != 0 {
		t.Errorf("no sink should run for a malformed entry, applied = %v", applied)
	}
}
