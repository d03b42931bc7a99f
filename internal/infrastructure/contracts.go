package infrastructure

import "context"

type (
	// Embedder turns text into a fixed-dimension vector. Implemented by an
	// external inference service, so failures and slowness are expected.
	Embedder interface {
		Embed(ctx context.Context, text string) ([]float32, error)
		Dimension() int
	}
)
