// Package embedding implements the client for the external text-embedding
// service.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ichbintonywu/transaction-processor/internal/metrics"
)

type Client struct {
	endpoint  string
	dimension int
	http      *http.Client
}

func NewClient(endpoint string, dimension int, timeout time.Duration) *Client {
	return &Client{
		endpoint:  endpoint,
		dimension: dimension,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type embedRequest struct {
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed posts the text to the inference endpoint and returns the vector.
// The response dimension must match the configured one, since the vector
// index dimension is fixed at creation time.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	started := time.Now()

	body, err := json.Marshal(embedRequest{Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("embedding - Client - Embed - json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding - Client - Embed - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding - Client - Embed - c.http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf("embedding - Client - Embed - status %d: %s", resp.StatusCode, payload)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embedding - Client - Embed - json.Decode: %w", err)
	}

	if len(parsed.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding - Client - Embed - empty response")
	}

	vector := parsed.Embeddings[0]
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("embedding - Client - Embed - got dimension %d, want %d", len(vector), c.dimension)
	}

	metrics.EmbeddingDuration.Observe(float64(time.Since(started).Milliseconds()))

	return vector, nil
}

func (c *Client) Dimension() int {
	return c.dimension
}
