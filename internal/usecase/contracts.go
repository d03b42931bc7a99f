package usecase

import (
	"context"

	"github.com/ichbintonywu/transaction-processor/internal/dto"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
)

type (
	// IngestUseCase applies one claimed log entry to every derived view.
	IngestUseCase interface {
		ProcessEntry(ctx context.Context, entry stream.Entry) error
	}

	// QueryUseCase is the entire read surface the external API may call.
	QueryUseCase interface {
		RecentTransactions(ctx context.Context, limit int) ([]entity.Transaction, error)
		Transaction(ctx context.Context, transactionID string) (*entity.Transaction, error)
		TopCategories(ctx context.Context, limit int) ([]entity.CategoryTotal, error)
		TopMerchants(ctx context.Context, category string, limit int) ([]entity.MerchantTotal, error)
		SpendingRange(ctx context.Context, startMs, endMs int64) (*dto.SpendingRange, error)
		LatestTimestamp(ctx context.Context) (int64, error)
		Search(ctx context.Context, query string, limit int) ([]dto.SearchResult, error)
		Status(ctx context.Context) (*dto.Status, error)
	}
)
