package persistent

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	vectorIndexName  = "idx:transactions:vector"
	vectorKeyPrefix  = "txvec:"
	embeddingField   = "embedding"
	distanceField    = "vector_distance"
	vectorSearchKNN  = "*=>[KNN %d @" + embeddingField + " $vec AS " + distanceField + "]"
	indexExistsError = "index already exists"
)

// VectorRepo keeps transaction embeddings in a flat float32 cosine index
// over hashes. Upserts are keyed by transaction ID, so replays are
// idempotent by construction.
type VectorRepo struct {
	client    *redis.Client
	dimension int
}

func NewVectorRepo(client *redis.Client, dimension int) *VectorRepo {
	return &VectorRepo{
		client:    client,
		dimension: dimension,
	}
}

// EnsureIndex lazily creates the index. An index that already exists is
// success, not failure.
func (r *VectorRepo) EnsureIndex(ctx context.Context) error {
	err := r.client.FTCreate(ctx, vectorIndexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{vectorKeyPrefix},
		},
		&redis.FieldSchema{
			FieldName: embeddingField,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            r.dimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{FieldName: entity.FieldMerchant, FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: entity.FieldCategory, FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: entity.FieldLocation, FieldType: redis.SearchFieldTypeText},
	).Err()
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), indexExistsError) {
		return fmt.Errorf("VectorRepo - EnsureIndex - r.client.FTCreate: %w", err)
	}

	return nil
}

func (r *VectorRepo) Upsert(ctx context.Context, tx *entity.Transaction, vector []float32) error {
	if len(vector) != r.dimension {
		return fmt.Errorf("VectorRepo - Upsert - got dimension %d, want %d", len(vector), r.dimension)
	}

	values := tx.WireValues()
	values[embeddingField] = encodeVector(vector)

	err := r.client.HSet(ctx, vectorKeyPrefix+tx.TransactionID, values).Err()
	if err != nil {
		return fmt.Errorf("VectorRepo - Upsert - r.client.HSet: %w", err)
	}

	return nil
}

// Search runs a KNN query and returns hits ordered by descending similarity,
// where similarity is 1 - cosine distance.
func (r *VectorRepo) Search(ctx context.Context, vector []float32, limit int) ([]entity.VectorHit, error) {
	query := fmt.Sprintf(vectorSearchKNN, limit)

	result, err := r.client.FTSearchWithArgs(ctx, vectorIndexName, query, &redis.FTSearchOptions{
		Params: map[string]interface{}{
			"vec": encodeVector(vector),
		},
		SortBy: []redis.FTSearchSortBy{
			{FieldName: distanceField, Asc: true},
		},
		LimitOffset:    0,
		Limit:          limit,
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("VectorRepo - Search - r.client.FTSearchWithArgs: %w", err)
	}

	hits := make([]entity.VectorHit, 0, len(result.Docs))
	for _, doc := range result.Docs {
		hit, ok := parseVectorDoc(doc.Fields)
		if !ok {
			continue
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

func (r *VectorRepo) Ready(ctx context.Context) (bool, error) {
	_, err := r.client.FTInfo(ctx, vectorIndexName).Result()
	if err != nil {
		// A missing index is "not ready", not a failure.
		return false, nil
	}

	return true, nil
}

func parseVectorDoc(fields map[string]string) (entity.VectorHit, bool) {
	distance, err := strconv.ParseFloat(fields[distanceField], 64)
	if err != nil {
		return entity.VectorHit{}, false
	}

	amount, _ := strconv.ParseFloat(fields[entity.FieldAmount], 64)
	timestamp, _ := strconv.ParseInt(fields[entity.FieldTimestamp], 10, 64)

	return entity.VectorHit{
		Transaction: entity.Transaction{
			TransactionID: fields[entity.FieldTransactionID],
			CustomerID:    fields[entity.FieldCustomerID],
			Amount:        amount,
			Merchant:      fields[entity.FieldMerchant],
			Category:      entity.Category(fields[entity.FieldCategory]),
			Timestamp:     timestamp,
			Location:      fields[entity.FieldLocation],
			CardLast4:     fields[entity.FieldCardLast4],
		},
		Similarity: 1 - distance,
	}, true
}

// encodeVector serializes float32 components to the little-endian blob the
// index expects.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	return buf
}

func decodeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}

	return vector
}
