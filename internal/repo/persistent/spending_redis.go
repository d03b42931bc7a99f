package persistent

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	categoriesKey      = "spending:categories"
	categoryKeyPattern = "spending:category:%s"
)

// SpendingRepo keeps running totals in sorted sets: one set ranking
// categories, one set per category ranking merchants. Increments are not
// idempotent; redelivery double-counts, which is the accepted at-least-once
// trade-off.
type SpendingRepo struct {
	client *redis.Client
}

func NewSpendingRepo(client *redis.Client) *SpendingRepo {
	return &SpendingRepo{client: client}
}

func (r *SpendingRepo) Record(ctx context.Context, category entity.Category, merchant string, amount float64) error {
	err := r.client.ZIncrBy(ctx, categoriesKey, amount, string(category)).Err()
	if err != nil {
		return fmt.Errorf("SpendingRepo - Record - r.client.ZIncrBy categories: %w", err)
	}

	err = r.client.ZIncrBy(ctx, fmt.Sprintf(categoryKeyPattern, category), amount, merchant).Err()
	if err != nil {
		return fmt.Errorf("SpendingRepo - Record - r.client.ZIncrBy merchants: %w", err)
	}

	return nil
}

func (r *SpendingRepo) TopCategories(ctx context.Context, limit int) ([]entity.CategoryTotal, error) {
	ranked, err := r.client.ZRevRangeWithScores(ctx, categoriesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("SpendingRepo - TopCategories - r.client.ZRevRangeWithScores: %w", err)
	}

	totals := make([]entity.CategoryTotal, 0, len(ranked))
	for _, z := range ranked {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		totals = append(totals, entity.CategoryTotal{
			Category: entity.Category(member),
			Total:    z.Score,
		})
	}

	return totals, nil
}

func (r *SpendingRepo) TopMerchants(ctx context.Context, category entity.Category, limit int) ([]entity.MerchantTotal, error) {
	key := fmt.Sprintf(categoryKeyPattern, category)

	ranked, err := r.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("SpendingRepo - TopMerchants - r.client.ZRevRangeWithScores: %w", err)
	}

	totals := make([]entity.MerchantTotal, 0, len(ranked))
	for _, z := range ranked {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		totals = append(totals, entity.MerchantTotal{
			Merchant: member,
			Total:    z.Score,
		})
	}

	return totals, nil
}

func (r *SpendingRepo) Ready(ctx context.Context) (bool, error) {
	exists, err := r.client.Exists(ctx, categoriesKey).Result()
	if err != nil {
		return false, fmt.Errorf("SpendingRepo - Ready - r.client.Exists: %w", err)
	}

	return exists > 0, nil
}
