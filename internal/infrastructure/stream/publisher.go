package stream

import (
	"context"
	"fmt"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
	"github.com/redis/go-redis/v9"
)

// Publisher is the producer-side of the event log.
type Publisher struct {
	client    *redis.Client
	streamKey string
}

func NewPublisher(client *redis.Client, streamKey string) *Publisher {
	return &Publisher{
		client:    client,
		streamKey: streamKey,
	}
}

// Publish appends the transaction to the log and returns the log-assigned
// entry ID.
func (p *Publisher) Publish(ctx context.Context, tx *entity.Transaction) (string, error) {
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamKey,
		Values: tx.WireValues(),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("Publisher - Publish - p.client.XAdd: %w", err)
	}

	return id, nil
}
