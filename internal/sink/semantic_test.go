package sink_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/ichbintonywu/transaction-processor/internal/sink"
)

type fakeEmbedder struct {
	texts  []string
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}

	return f.vector, nil
}

func (f *fakeEmbedder) Dimension() int { return len(f.vector) }

type fakeVectorRepo struct {
	upserts []upsert
}

type upsert struct {
	tx     *entity.Transaction
	vector []float32
}

func (f *fakeVectorRepo) EnsureIndex(_ context.Context) error { return nil }

func (f *fakeVectorRepo) Upsert(_ context.Context, tx *entity.Transaction, vector []float32) error {
	f.upserts = append(f.upserts, upsert{tx: tx, vector: vector})

	return nil
}

func (f *fakeVectorRepo) Search(_ context.Context, _ []float32, _ int) ([]entity.VectorHit, error) {
	return nil, nil
}

func (f *fakeVectorRepo) Ready(_ context.Context) (bool, error) { return true, nil }

func sampleTransaction() *entity.Transaction {
	return &entity.Transaction{
		TransactionID: "tx_1",
		CustomerID:    "cust_001",
		Amount:        8.75,
		Merchant:      "Starbucks",
		Category:      entity.Dining,
		Timestamp:     1000,
		Location:      "Dallas, TX",
		CardLast4:     "4242",
	}
}

func TestDescribeTransaction(t *testing.T) {
	got := sink.DescribeTransaction(sampleTransaction())
	want := "Transaction at Starbucks which is in the dining spending category. Transaction in city Dallas, TX"

	if got != want {
		t.Errorf("DescribeTransaction = %q, want %q", got, want)
	}
}

func TestSemanticSinkApply(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	vectors := &fakeVectorRepo{}

	s := sink.NewSemanticSink(embedder, vectors)

	if err := s.Apply(context.Background(), sampleTransaction()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(embedder.texts) != 1 || embedder.texts[0] != sink.DescribeTransaction(sampleTransaction()) {
		t.Errorf("embedded texts = %v, want the descriptive template", embedder.texts)
	}

	if len(vectors.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(vectors.upserts))
	}
	if vectors.upserts[0].tx.TransactionID != "tx_1" {
		t.Errorf("upserted transaction = %q, want tx_1", vectors.upserts[0].tx.TransactionID)
	}
	if len(vectors.upserts[0].vector) != 3 {
		t.Errorf("upserted vector length = %d, want 3", len(vectors.upserts[0].vector))
	}
}

func TestSemanticSinkApplyEmbedderFailure(t *testing.T) {
	embedErr := errors.New("model service unavailable")
	embedder := &fakeEmbedder{err: embedErr}
	vectors := &fakeVectorRepo{}

	s := sink.NewSemanticSink(embedder, vectors)

	err := s.Apply(context.Background(), sampleTransaction())
	if !errors.Is(err, embedErr) {
		t.Fatalf("err = %v, want wrapped %v", err, embedErr)
	}

	if len(vectors.upserts) != 0 {
		t.Error("no upsert should happen when embedding fails")
	}
}
