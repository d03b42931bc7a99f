package dispatcher

import (
	"context"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
)

type (
	// EventLog is the durable, ordered log the dispatcher consumes through a
	// named consumer group.
	EventLog interface {
		EnsureGroup(ctx context.Context) error
		Claim(ctx context.Context, consumer string, count int, block time.Duration) ([]stream.Entry, error)
		Ack(ctx context.Context, entryID string) error
	}
)
