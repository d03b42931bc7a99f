// Package query implements the read side over the derived views.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/ichbintonywu/transaction-processor/internal/dto"
	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/infrastructure"
	"github.com/ichbintonywu/transaction-processor/internal/repo"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

type QueryUseCase struct {
	recency      repo.RecencyRepo
	transactions repo.TransactionRepo
	spending     repo.SpendingRepo
	series       repo.TimeSeriesRepo
	vectors      repo.VectorRepo
	embedder     infrastructure.Embedder

	minSimilarity float64
	queryHint     string

	logger logger.Interface
}

func New(
	recency repo.RecencyRepo,
	transactions repo.TransactionRepo,
	spending repo.SpendingRepo,
	series repo.TimeSeriesRepo,
	vectors repo.VectorRepo,
	embedder infrastructure.Embedder,
	minSimilarity float64,
	queryHint string,
	l logger.Interface,
) *QueryUseCase {
	return &QueryUseCase{
		recency:       recency,
		transactions:  transactions,
		spending:      spending,
		series:        series,
		vectors:       vectors,
		embedder:      embedder,
		minSimilarity: minSimilarity,
		queryHint:     queryHint,
		logger:        l,
	}
}

// RecentTransactions resolves the newest-first ID index against the document
// store. The index may hold duplicates after redelivery; the join dedupes
// and keeps the first occurrence.
func (uc *QueryUseCase) RecentTransactions(ctx context.Context, limit int) ([]entity.Transaction, error) {
	ids, err := uc.recency.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - RecentTransactions - uc.recency.Recent: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	txs, err := uc.transactions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - RecentTransactions - uc.transactions.GetByIDs: %w", err)
	}

	return txs, nil
}

func (uc *QueryUseCase) Transaction(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	tx, err := uc.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - Transaction - uc.transactions.GetByID: %w", err)
	}

	return tx, nil
}

func (uc *QueryUseCase) TopCategories(ctx context.Context, limit int) ([]entity.CategoryTotal, error) {
	totals, err := uc.spending.TopCategories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - TopCategories - uc.spending.TopCategories: %w", err)
	}

	return totals, nil
}

func (uc *QueryUseCase) TopMerchants(ctx context.Context, category string, limit int) ([]entity.MerchantTotal, error) {
	c := entity.Category(category)
	if !c.Valid() {
		return nil, fmt.Errorf("QueryUseCase - TopMerchants - %q: %w", category, errs.ErrUnknownCategory)
	}

	totals, err := uc.spending.TopMerchants(ctx, c, limit)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - TopMerchants - uc.spending.TopMerchants: %w", err)
	}

	return totals, nil
}

// SpendingRange returns the samples of the window with inclusive bounds; the
// total is derived from the returned amounts, never stored.
func (uc *QueryUseCase) SpendingRange(ctx context.Context, startMs, endMs int64) (*dto.SpendingRange, error) {
	ready, err := uc.series.Ready(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - SpendingRange - uc.series.Ready: %w", err)
	}
	if !ready {
		return &dto.SpendingRange{Start: startMs, End: endMs}, nil
	}

	samples, err := uc.series.Range(ctx, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - SpendingRange - uc.series.Range: %w", err)
	}

	result := &dto.SpendingRange{
		Points: make([]dto.SamplePoint, 0, len(samples)),
		Start:  startMs,
		End:    endMs,
	}
	for _, s := range samples {
		result.Points = append(result.Points, dto.SamplePoint{
			Timestamp: s.Timestamp,
			Amount:    s.Amount,
		})
		result.Total += s.Amount
	}

	return result, nil
}

func (uc *QueryUseCase) LatestTimestamp(ctx context.Context) (int64, error) {
	latest, err := uc.series.Latest(ctx)
	if err != nil {
		return 0, fmt.Errorf("QueryUseCase - LatestTimestamp - uc.series.Latest: %w", err)
	}

	return latest, nil
}

// Search embeds the free-text query and runs a similarity search, dropping
// hits below the configured similarity floor. The domain hint token biases
// the embedding toward the indexed domain; a tunable heuristic, not a
// correctness requirement.
func (uc *QueryUseCase) Search(ctx context.Context, query string, limit int) ([]dto.SearchResult, error) {
	ready, err := uc.vectors.Ready(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - Search - uc.vectors.Ready: %w", err)
	}
	if !ready {
		return nil, fmt.Errorf("QueryUseCase - Search: %w", errs.ErrIndexNotReady)
	}

	vector, err := uc.embedder.Embed(ctx, uc.hintQuery(query))
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - Search - uc.embedder.Embed: %w", err)
	}

	hits, err := uc.vectors.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("QueryUseCase - Search - uc.vectors.Search: %w", err)
	}

	results := make([]dto.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < uc.minSimilarity {
			continue
		}

		results = append(results, dto.SearchResult{
			Transaction: hit.Transaction,
			Similarity:  hit.Similarity,
		})
	}

	return results, nil
}

func (uc *QueryUseCase) hintQuery(query string) string {
	if uc.queryHint == "" || strings.Contains(strings.ToLower(query), strings.ToLower(uc.queryHint)) {
		return query
	}

	return uc.queryHint + " " + query
}

// Status reports readiness per view; a missing backing structure is simply
// "not ready".
func (uc *QueryUseCase) Status(ctx context.Context) (*dto.Status, error) {
	status := &dto.Status{}

	var err error

	status.Recency, err = uc.recency.Ready(ctx)
	if err != nil {
		uc.logger.Warn("QueryUseCase - Status - uc.recency.Ready: %v", err)
	}

	count, err := uc.transactions.Count(ctx)
	if err != nil {
		uc.logger.Warn("QueryUseCase - Status - uc.transactions.Count: %v", err)
	}
	status.Documents = count > 0

	status.Categories, err = uc.spending.Ready(ctx)
	if err != nil {
		uc.logger.Warn("QueryUseCase - Status - uc.spending.Ready: %v", err)
	}

	status.TimeSeries, err = uc.series.Ready(ctx)
	if err != nil {
		uc.logger.Warn("QueryUseCase - Status - uc.series.Ready: %v", err)
	}

	status.Search, err = uc.vectors.Ready(ctx)
	if err != nil {
		uc.logger.Warn("QueryUseCase - Status - uc.vectors.Ready: %v", err)
	}

	return status, nil
}
