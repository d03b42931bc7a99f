package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/usecase/query"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
	"github.com/ichbintonywu/transaction-processor/pkg/types/errs"
)

type fakeRecency struct {
	ids   []string
	ready bool
}

func (f *fakeRecency) Push(_ context.Context, _ string) error { return nil }

func (f *fakeRecency) Recent(_ context.Context, limit int) ([]string, error) {
	if limit > len(f.ids) {
		limit = len(f.ids)
	}

	return f.ids[:limit], nil
}

func (f *fakeRecency) Ready(_ context.Context) (bool, error) { return f.ready, nil }

type fakeTransactions struct {
	byID map[string]entity.Transaction
}

func (f *fakeTransactions) Upsert(_ context.Context, _ *entity.Transaction) error { return nil }

func (f *fakeTransactions) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	tx, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return &tx, nil
}

func (f *fakeTransactions) GetByIDs(_ context.Context, ids []string) ([]entity.Transaction, error) {
	seen := make(map[string]bool, len(ids))
	result := make([]entity.Transaction, 0, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		if tx, ok := f.byID[id]; ok {
			result = append(result, tx)
		}
	}

	return result, nil
}

func (f *fakeTransactions) Count(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

type fakeSpending struct {
	categories []entity.CategoryTotal
	merchants  map[entity.Category][]entity.MerchantTotal
	ready      bool
}

func (f *fakeSpending) Record(_ context.Context, _ entity.Category, _ string, _ float64) error {
	return nil
}

func (f *fakeSpending) TopCategories(_ context.Context, _ int) ([]entity.CategoryTotal, error) {
	return f.categories, nil
}

func (f *fakeSpending) TopMerchants(_ context.Context, category entity.Category, _ int) ([]entity.MerchantTotal, error) {
	return f.merchants[category], nil
}

func (f *fakeSpending) Ready(_ context.Context) (bool, error) { return f.ready, nil }

type fakeSeries struct {
	samples []entity.Sample
	latest  int64
	ready   bool
}

func (f *fakeSeries) Add(_ context.Context, _ int64, _ float64) error { return nil }

func (f *fakeSeries) Range(_ context.Context, startMs, endMs int64) ([]entity.Sample, error) {
	result := make([]entity.Sample, 0, len(f.samples))
	for _, s := range f.samples {
		if s.Timestamp >= startMs && s.Timestamp <= endMs {
			result = append(result, s)
		}
	}

	return result, nil
}

func (f *fakeSeries) Latest(_ context.Context) (int64, error) { return f.latest, nil }

func (f *fakeSeries) Ready(_ context.Context) (bool, error) { return f.ready, nil }

type fakeVectors struct {
	hits  []entity.VectorHit
	ready bool
}

func (f *fakeVectors) EnsureIndex(_ context.Context) error { return nil }

func (f *fakeVectors) Upsert(_ context.Context, _ *entity.Transaction, _ []float32) error {
	return nil
}

func (f *fakeVectors) Search(_ context.Context, _ []float32, _ int) ([]entity.VectorHit, error) {
	return f.hits, nil
}

func (f *fakeVectors) Ready(_ context.Context) (bool, error) { return f.ready, nil }

type fakeEmbedder struct {
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)

	return []float32{0.1, 0.2}, nil
}

func (f *fakeEmbedder) Dimension() int { return 2 }

func tx(id string) entity.Transaction {
	return entity.Transaction{
		TransactionID: id,
		CustomerID:    "cust_001",
		Amount:        10,
		Merchant:      "Target",
		Category:      entity.Shopping,
		Timestamp:     1000,
		Location:      "Austin, TX",
		CardLast4:     "1234",
	}
}

type deps struct {
	recency  *fakeRecency
	txs      *fakeTransactions
	spending *fakeSpending
	series   *fakeSeries
	vectors  *fakeVectors
	embedder *fakeEmbedder
}

func newQuery(d deps) *query.QueryUseCase {
	if d.recency == nil {
		d.recency = &fakeRecency{}
	}
	if d.txs == nil {
		d.txs = &fakeTransactions{}
	}
	if d.spending == nil {
		d.spending = &fakeSpending{}
	}
	if d.series == nil {
		d.series = &fakeSeries{}
	}
	if d.vectors == nil {
		d.vectors = &fakeVectors{}
	}
	if d.embedder == nil {
		d.embedder = &fakeEmbedder{}
	}

	return query.New(
		d.recency, d.txs, d.spending, d.series, d.vectors, d.embedder,
		0.5, "transactions", logger.New("error"),
	)
}

func TestRecentTransactionsDedupesAndKeepsOrder(t *testing.T) {
	uc := newQuery(deps{
		recency: &fakeRecency{ids: []string{"tx_3", "tx_2", "tx_3", "tx_1"}},
		txs: &fakeTransactions{byID: map[string]entity.Transaction{
			"tx_1": tx("tx_1"),
			"tx_2": tx("tx_2"),
			"tx_3": tx("tx_3"),
		}},
	})

	got, err := uc.RecentTransactions(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"tx_3", "tx_2", "tx_1"}
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].TransactionID != want[i] {
			t.Errorf("position %d = %q, want %q", i, got[i].TransactionID, want[i])
		}
	}
}

func TestRecentTransactionsEmptyIndex(t *testing.T) {
	uc := newQuery(deps{})

	got, err := uc.RecentTransactions(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestTransactionNotFound(t *testing.T) {
	uc := newQuery(deps{txs: &fakeTransactions{byID: map[string]entity.Transaction{}}})

	_, err := uc.Transaction(context.Background(), "tx_missing")
	if !errors.Is(err, errs.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestTopMerchantsUnknownCategory(t *testing.T) {
	uc := newQuery(deps{})

	_, err := uc.TopMerchants(context.Background(), "gambling", 5)
	if !errors.Is(err, errs.ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestTopMerchantsValidCategory(t *testing.T) {
	uc := newQuery(deps{spending: &fakeSpending{
		ready: true,
		merchants: map[entity.Category][]entity.MerchantTotal{
			entity.Dining: {{Merchant: "Chipotle", Total: 120}},
		},
	}})

	got, err := uc.TopMerchants(context.Background(), "dining", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Merchant != "Chipotle" {
		t.Errorf("got %v, want Chipotle", got)
	}
}

func TestSpendingRangeDerivesTotal(t *testing.T) {
	uc := newQuery(deps{series: &fakeSeries{
		ready: true,
		samples: []entity.Sample{
			{Timestamp: 1000, Amount: 10.5},
			{Timestamp: 2000, Amount: 4.5},
			{Timestamp: 9000, Amount: 100},
		},
	}})

	got, err := uc.SpendingRange(context.Background(), 1000, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(got.Points))
	}
	if got.Total != 15.0 {
		t.Errorf("total = %v, want 15.0", got.Total)
	}
}

func TestSpendingRangeNotReady(t *testing.T) {
	uc := newQuery(deps{series: &fakeSeries{ready: false}})

	got, err := uc.SpendingRange(context.Background(), 1000, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Points) != 0 || got.Total != 0 {
		t.Errorf("got %+v, want empty window", got)
	}
}

func TestSearchPrependsDomainHint(t *testing.T) {
	embedder := &fakeEmbedder{}
	uc := newQuery(deps{
		vectors:  &fakeVectors{ready: true},
		embedder: embedder,
	})

	if _, err := uc.Search(context.Background(), "coffee in Dallas", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(embedder.texts) != 1 || embedder.texts[0] != "transactions coffee in Dallas" {
		t.Errorf("embedded texts = %v, want hint-prefixed query", embedder.texts)
	}
}

func TestSearchKeepsHintedQueryUntouched(t *testing.T) {
	embedder := &fakeEmbedder{}
	uc := newQuery(deps{
		vectors:  &fakeVectors{ready: true},
		embedder: embedder,
	})

	if _, err := uc.Search(context.Background(), "Transactions near Austin", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(embedder.texts) != 1 || embedder.texts[0] != "Transactions near Austin" {
		t.Errorf("embedded texts = %v, want the query unchanged", embedder.texts)
	}
}

func TestSearchFiltersBelowSimilarityFloor(t *testing.T) {
	uc := newQuery(deps{vectors: &fakeVectors{
		ready: true,
		hits: []entity.VectorHit{
			{Transaction: tx("tx_1"), Similarity: 0.91},
			{Transaction: tx("tx_2"), Similarity: 0.49},
			{Transaction: tx("tx_3"), Similarity: 0.50},
		},
	}})

	got, err := uc.Search(context.Background(), "shopping", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("results = %d, want 2 (floor is inclusive)", len(got))
	}
	if got[0].Transaction.TransactionID != "tx_1" || got[1].Transaction.TransactionID != "tx_3" {
		t.Errorf("results = %v, want tx_1 then tx_3", got)
	}
}

func TestSearchIndexNotReady(t *testing.T) {
	uc := newQuery(deps{vectors: &fakeVectors{ready: false}})

	_, err := uc.Search(context.Background(), "anything", 5)
	if !errors.Is(err, errs.ErrIndexNotReady) {
		t.Errorf("err = %v, want ErrIndexNotReady", err)
	}
}

func TestStatusReflectsViewReadiness(t *testing.T) {
	uc := newQuery(deps{
		recency:  &fakeRecency{ready: true},
		txs:      &fakeTransactions{byID: map[string]entity.Transaction{"tx_1": tx("tx_1")}},
		spending: &fakeSpending{ready: true},
		series:   &fakeSeries{ready: false},
		vectors:  &fakeVectors{ready: true},
	})

	got, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Recency || !got.Documents || !got.Categories || got.TimeSeries || !got.Search {
		t.Errorf("status = %+v", got)
	}
}
