package sink

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/repo"
)

// RecencySink keeps the newest-first timeline of transaction IDs. Not
// idempotent under redelivery: a repeat insert duplicates the ID, and reads
// dedupe against the document view.
type RecencySink struct {
	recency repo.RecencyRepo
}

func NewRecencySink(recency repo.RecencyRepo) *RecencySink {
	return &RecencySink{recency: recency}
}

func (s *RecencySink) Name() string {
	return "recency"
}

func (s *RecencySink) Apply(ctx context.Context, tx *entity.Transaction) error {
	err := s.recency.Push(ctx, tx.TransactionID)
	if err != nil {
		return fmt.Errorf("RecencySink - Apply - s.recency.Push: %w", err)
	}

	return nil
}
