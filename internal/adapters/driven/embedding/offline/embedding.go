// Package offline provides a deterministic embedding service that
// needs no network and no model. Vectors are drawn from a PRNG seeded
// by the SHA-256 digest of the input text, then unit-normalized, so
// the same text always maps to the same point on the unit sphere.
// Useful for air-gapped operation and for tests: ranking is stable
// across runs and machines, though semantically meaningless.
package offline

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 256
	modelName         = "offline-hash"
)

// EmbeddingService derives embeddings from text content alone.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates an offline embedding service.
func NewEmbeddingService(dimensions int) (*EmbeddingService, error) {
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}
	if dimensions < 0 {
		return nil, fmt.Errorf("offline: %w: dimensions must be positive", domain.ErrInvalidConfig)
	}
	return &EmbeddingService{dimensions: dimensions}, nil
}

// Embed generates a deterministic unit vector for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(digest[:8]))
	rng := rand.New(rand.NewSource(seed))

	vec := make([]float32, s.dimensions)
	var sum float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = float32(v)
		sum += v * v
	}

	// NormFloat64 over a positive dimension count cannot produce an
	// all-zero draw in practice, but guard the division anyway.
	norm := math.Sqrt(sum)
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the pseudo-model identifier.
func (s *EmbeddingService) ModelName() string {
	return modelName
}

// Ping always succeeds. There is no service to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
