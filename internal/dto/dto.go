package dto

import "github.com/ichbintonywu/transaction-processor/internal/entity"

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total_spent"`
}

type MerchantTotal struct {
	Merchant string  `json:"merchant"`
	Total    float64 `json:"amount"`
}

type SamplePoint struct {
	Timestamp int64   `json:"timestamp"`
	Amount    float64 `json:"amount"`
}

// SpendingRange holds the samples of a time window. Total is derived from
// the returned points, never stored.
type SpendingRange struct {
	Points []SamplePoint `json:"data"`
	Total  float64       `json:"total_spent"`
	Start  int64         `json:"start"`
	End    int64         `json:"end"`
}

type SearchResult struct {
	Transaction entity.Transaction `json:"transaction"`
	Similarity  float64            `json:"score"`
}

// Status reports per-view readiness. A view whose backing structure does not
// exist yet is "not ready", which is an answer, not an error.
type Status struct {
	Recency    bool `json:"transactions_unlocked"`
	Documents  bool `json:"documents_unlocked"`
	Categories bool `json:"categories_unlocked"`
	TimeSeries bool `json:"timeseries_unlocked"`
	Search     bool `json:"search_unlocked"`
}

type StreamEntry struct {
	StreamID    string              `json:"stream_id"`
	Transaction *entity.Transaction `json:"transaction"`
}
