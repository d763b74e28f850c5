// Package qdrant implements the vector index port against a Qdrant
// server over its REST API. The collection is created on first use
// with cosine distance, matching the scoring of the in-process
// backend so callers can swap between them freely.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTimeout bounds each REST call to the server.
const DefaultTimeout = 15 * time.Second

// Config holds the connection settings for a Qdrant server.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// Index is a REST client for a single Qdrant collection. The
// collection dimension is fixed at construction and every vector is
// checked against it client-side, before it leaves the process.
type Index struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

// New creates a client and ensures the collection exists. The server
// is probed immediately so a misconfigured endpoint fails at startup
// rather than on the first query.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.URL == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: %w: url and collection are required", domain.ErrInvalidConfig)
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant: %w: dimension must be positive", domain.ErrInvalidConfig)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	idx := &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
	if err := idx.ensureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensuring collection %q: %w", cfg.Collection, err)
	}
	return idx, nil
}

// ensureCollection creates the collection if it does not exist.
// Qdrant returns 200 for an existing collection with the same schema.
func (idx *Index) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     idx.dimension,
			"distance": "Cosine",
		},
	}
	return idx.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", idx.collection), body, nil)
}

// Upsert writes vectors as points. The whole batch is validated
// before the request is built.
func (idx *Index) Upsert(ctx context.Context, items []driven.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	points := make([]map[string]any, len(items))
	for i, item := range items {
		vec, err := unitVector(item.Embedding)
		if err != nil {
			return fmt.Errorf("item %q: %w", item.ID, err)
		}
		if len(vec) != idx.dimension {
			return fmt.Errorf("item %q: %w: expected %d, got %d", item.ID, domain.ErrDimensionMismatch, idx.dimension, len(vec))
		}
		payload := map[string]any{}
		for k, v := range item.Metadata {
			payload[k] = v
		}
		points[i] = map[string]any{
			"id":      item.ID,
			"vector":  vec,
			"payload": payload,
		}
	}

	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", idx.collection)
	if err := idx.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// Delete removes points by id. Unknown ids are ignored by the server.
func (idx *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := map[string]any{"points": ids}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", idx.collection)
	if err := idx.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("deleting %d points: %w", len(ids), err)
	}
	return nil
}

// Search returns up to limit hits ordered by descending cosine score.
func (idx *Index) Search(ctx context.Context, query []float32, limit int) ([]driven.VectorHit, error) {
	vec, err := unitVector(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(vec) != idx.dimension {
		return nil, fmt.Errorf("query: %w: expected %d, got %d", domain.ErrDimensionMismatch, idx.dimension, len(vec))
	}
	if limit <= 0 {
		limit = 10
	}

	body := map[string]any{
		"vector": vec,
		"limit":  limit,
	}
	var resp struct {
		Result []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", idx.collection)
	if err := idx.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, driven.VectorHit{ChunkID: r.ID, Score: r.Score})
	}
	return hits, nil
}

// Count reports the number of points in the collection.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/count", idx.collection)
	if err := idx.do(ctx, http.MethodPost, path, map[string]any{"exact": true}, &resp); err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return resp.Result.Count, nil
}

// GetEmbeddings retrieves stored vectors by id. Missing ids are
// silently absent from the result.
func (idx *Index) GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error) {
	if len(ids) == 0 {
		return map[string][]float32{}, nil
	}

	body := map[string]any{
		"ids":          ids,
		"with_vector":  true,
		"with_payload": false,
	}
	var resp struct {
		Result []struct {
			ID     string    `json:"id"`
			Vector []float32 `json:"vector"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points", idx.collection)
	if err := idx.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("retrieving %d points: %w", len(ids), err)
	}

	out := make(map[string][]float32, len(resp.Result))
	for _, r := range resp.Result {
		out[r.ID] = r.Vector
	}
	return out, nil
}

// Close releases the HTTP client's idle connections.
func (idx *Index) Close() error {
	idx.client.CloseIdleConnections()
	return nil
}

// do issues a JSON request against the server and decodes the
// response into out when non-nil.
func (idx *Index) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, idx.url+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idx.apiKey != "" {
		req.Header.Set("api-key", idx.apiKey)
	}

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s: %s", method, path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// unitVector returns the unit-length copy of vec.
func unitVector(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, domain.ErrZeroVector
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, domain.ErrZeroVector
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}
