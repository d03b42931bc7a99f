package persistent

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const recencyKey = "transactions:ordered"

// RecencyRepo keeps transaction IDs in a redis list, newest first. A repeat
// push duplicates the ID; reads dedupe against the document store, and the
// list self-heals on a full rebuild.
type RecencyRepo struct {
	client *redis.Client
}

func NewRecencyRepo(client *redis.Client) *RecencyRepo {
	return &RecencyRepo{client: client}
}

func (r *RecencyRepo) Push(ctx context.Context, transactionID string) error {
	err := r.client.LPush(ctx, recencyKey, transactionID).Err()
	if err != nil {
		return fmt.Errorf("RecencyRepo - Push - r.client.LPush: %w", err)
	}

	return nil
}

func (r *RecencyRepo) Recent(ctx context.Context, limit int) ([]string, error) {
	ids, err := r.client.LRange(ctx, recencyKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("RecencyRepo - Recent - r.client.LRange: %w", err)
	}

	return ids, nil
}

func (r *RecencyRepo) Ready(ctx context.Context) (bool, error) {
	exists, err := r.client.Exists(ctx, recencyKey).Result()
	if err != nil {
		return false, fmt.Errorf("RecencyRepo - Ready - r.client.Exists: %w", err)
	}

	return exists > 0, nil
}
