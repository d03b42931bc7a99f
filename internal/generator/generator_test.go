package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

func TestRandomTransaction(t *testing.T) {
	for i := 0; i < 200; i++ {
		tx := RandomTransaction(25)

		if !strings.HasPrefix(tx.TransactionID, "tx_") || len(tx.TransactionID) != len("tx_")+12 {
			t.Fatalf("TransactionID = %q, want tx_ prefix and 12 hex chars", tx.TransactionID)
		}

		if !tx.Category.Valid() {
			t.Fatalf("Category = %q, want a known category", tx.Category)
		}

		found := false
		for _, name := range merchants[tx.Category] {
			if name == tx.Merchant {
				found = true

				break
			}
		}
		if !found {
			t.Fatalf("Merchant %q not in catalog of category %q", tx.Merchant, tx.Category)
		}

		bounds := amountRanges[tx.Category]
		if tx.Amount < bounds[0] || tx.Amount > bounds[1] {
			t.Fatalf("Amount %v outside [%v, %v] for category %q", tx.Amount, bounds[0], bounds[1], tx.Category)
		}

		if !strings.HasPrefix(tx.CustomerID, "cust_") || len(tx.CustomerID) != len("cust_")+3 {
			t.Fatalf("CustomerID = %q, want cust_NNN", tx.CustomerID)
		}

		if len(tx.CardLast4) != 4 {
			t.Fatalf("CardLast4 = %q, want 4 digits", tx.CardLast4)
		}

		if _, err := entity.ParseTransaction(tx.WireValues()); err != nil {
			t.Fatalf("generated transaction does not survive the wire: %v", err)
		}
	}
}

type countingPublisher struct {
	timestamps []int64
}

func (p *countingPublisher) Publish(_ context.Context, tx *entity.Transaction) (string, error) {
	p.timestamps = append(p.timestamps, tx.Timestamp)

	return "1-0", nil
}

func TestGeneratorStridesEventTime(t *testing.T) {
	pub := &countingPublisher{}
	g := New(pub, logger.New("error"), time.Minute, 25, time.Hour)

	for i := 0; i < 3; i++ {
		g.publishOne(context.Background())
	}

	if len(pub.timestamps) != 3 {
		t.Fatalf("published = %d, want 3", len(pub.timestamps))
	}

	step := time.Hour.Milliseconds()
	for i := 1; i < len(pub.timestamps); i++ {
		if pub.timestamps[i]-pub.timestamps[i-1] != step {
			t.Errorf("timestamp stride = %d, want %d", pub.timestamps[i]-pub.timestamps[i-1], step)
		}
	}
}
