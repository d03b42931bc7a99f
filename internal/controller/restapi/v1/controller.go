package v1

import (
	"context"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/infrastructure/stream"
	"github.com/ichbintonywu/transaction-processor/internal/usecase"
	"github.com/ichbintonywu/transaction-processor/pkg/logger"
)

// TailReader reads the log outside of any consumer group, for the live
// stream endpoint.
type TailReader interface {
	Tail(ctx context.Context, afterID string, block time.Duration) (*stream.Entry, error)
}

type V1 struct {
	query  usecase.QueryUseCase
	tail   TailReader
	logger logger.Interface
}
