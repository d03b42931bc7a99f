package sink

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/repo"
)

// DocumentSink upserts the canonical record keyed by transaction ID.
// Idempotent: the writer is the immutable event, so replays are no-ops in
// effect.
type DocumentSink struct {
	transactions repo.TransactionRepo
}

func NewDocumentSink(transactions repo.TransactionRepo) *DocumentSink {
	return &DocumentSink{transactions: transactions}
}

func (s *DocumentSink) Name() string {
	return "document"
}

func (s *DocumentSink) Apply(ctx context.Context, tx *entity.Transaction) error {
	err := s.transactions.Upsert(ctx, tx)
	if err != nil {
		return fmt.Errorf("DocumentSink - Apply - s.transactions.Upsert: %w", err)
	}

	return nil
}
