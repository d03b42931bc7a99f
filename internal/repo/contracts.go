package repo

import (
	"context"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
)

type (
	// RecencyRepo is the newest-first index of transaction IDs.
	RecencyRepo interface {
		Push(ctx context.Context, transactionID string) error
		Recent(ctx context.Context, limit int) ([]string, error)
		Ready(ctx context.Context) (bool, error)
	}

	// TransactionRepo is the canonical record per transaction ID.
	TransactionRepo interface {
		Upsert(ctx context.Context, tx *entity.Transaction) error
		GetByID(ctx context.Context, transactionID string) (*entity.Transaction, error)
		GetByIDs(ctx context.Context, transactionIDs []string) ([]entity.Transaction, error)
		Count(ctx context.Context) (int64, error)
	}

	// SpendingRepo keeps running totals per category and per merchant within
	// a category.
	SpendingRepo interface {
		Record(ctx context.Context, category entity.Category, merchant string, amount float64) error
		TopCategories(ctx context.Context, limit int) ([]entity.CategoryTotal, error)
		TopMerchants(ctx context.Context, category entity.Category, limit int) ([]entity.MerchantTotal, error)
		Ready(ctx context.Context) (bool, error)
	}

	// TimeSeriesRepo keeps amount-over-time samples.
	TimeSeriesRepo interface {
		Add(ctx context.Context, timestamp int64, amount float64) error
		Range(ctx context.Context, startMs, endMs int64) ([]entity.Sample, error)
		Latest(ctx context.Context) (int64, error)
		Ready(ctx context.Context) (bool, error)
	}

	// VectorRepo is the similarity-searchable index of transaction
	// embeddings.
	VectorRepo interface {
		EnsureIndex(ctx context.Context) error
		Upsert(ctx context.Context, tx *entity.Transaction, vector []float32) error
		Search(ctx context.Context, vector []float32, limit int) ([]entity.VectorHit, error)
		Ready(ctx context.Context) (bool, error)
	}
)
