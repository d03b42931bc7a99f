// Package sink defines the derived-view contract and the five views fed by
// the dispatcher.
package sink

import (
	"context"

	"github.com/ichbintonywu/transaction-processor/internal/entity"
)

// Sink materializes one derived view of every transaction event. Apply must
// tolerate redelivery of the same event without corrupting the view, and
// must only read the event.
type Sink interface {
	Name() string
	Apply(ctx context.Context, tx *entity.Transaction) error
}
