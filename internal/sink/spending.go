package sink

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/repo"
)

// SpendingSink adds the amount to the category total and to the merchant
// total within the category. Not idempotent: redelivery double-counts.
type SpendingSink struct {
	spending repo.SpendingRepo
}

func NewSpendingSink(spending repo.SpendingRepo) *SpendingSink {
	return &SpendingSink{spending: spending}
}

func (s *SpendingSink) Name() string {
	return "spending"
}

func (s *SpendingSink) Apply(ctx context.Context, tx *entity.Transaction) error {
	err := s.spending.Record(ctx, tx.Category, tx.Merchant, tx.Amount)
	if err != nil {
		return fmt.Errorf("SpendingSink - Apply - s.spending.Record: %w", err)
	}

	return nil
}
