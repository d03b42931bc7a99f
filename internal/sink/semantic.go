package sink

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure"
	"github.com/ichbintonywu/transaction-processor/internal/repo"
)

// SemanticSink embeds a descriptive text built from merchant, category and
// location, and upserts the vector keyed by transaction ID. Idempotent by
// construction. The embedding round-trip is the longest step of the fan-out.
type SemanticSink struct {
	embedder infrastructure.Embedder
	vectors  repo.VectorRepo
}

func NewSemanticSink(embedder infrastructure.Embedder, vectors repo.VectorRepo) *SemanticSink {
	return &SemanticSink{
		embedder: embedder,
		vectors:  vectors,
	}
}

func (s *SemanticSink) Name() string {
	return "semantic"
}

func (s *SemanticSink) Apply(ctx context.Context, tx *entity.Transaction) error {
	vector, err := s.embedder.Embed(ctx, DescribeTransaction(tx))
	if err != nil {
		return fmt.Errorf("SemanticSink - Apply - s.embedder.Embed: %w", err)
	}

	err = s.vectors.Upsert(ctx, tx, vector)
	if err != nil {
		return fmt.Errorf("SemanticSink - Apply - s.vectors.Upsert: %w", err)
	}

	return nil
}

// DescribeTransaction builds the text the embedding is derived from.
func DescribeTransaction(tx *entity.Transaction) string {
	return fmt.Sprintf(
		"Transaction at %s which is in the %s spending category. Transaction in city %s",
		tx.Merchant, tx.Category, tx.Location,
	)
}
