// Package cached wraps an embedding service with a content cache so a
// given (model, text) pair is embedded at most once. Re-ingesting an
// unchanged document costs no provider calls.
package cached

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	cachefile "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/cache/file"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Namespace is the cache namespace for embedding vectors.
const Namespace = "embeddings"

// EmbeddingService is a read-through cache in front of another
// embedding service. Entries are keyed by model name and text, so
// switching models never serves stale vectors.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.ContentCache
}

// NewEmbeddingService wraps inner with cache.
func NewEmbeddingService(inner driven.EmbeddingService, cache driven.ContentCache) *EmbeddingService {
	return &EmbeddingService{inner: inner, cache: cache}
}

// Embed returns the cached vector for text, computing and storing it
// on a miss.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cachefile.Key(s.inner.ModelName(), text)

	payload, err := s.cache.GetOrCompute(Namespace, key, func() ([]byte, error) {
		vec, err := s.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		return encodeVector(vec), nil
	})
	if err != nil {
		return nil, err
	}

	vec, err := decodeVector(payload)
	if err != nil {
		return nil, fmt.Errorf("cached embedding for key %s: %w", key, err)
	}
	return vec, nil
}

// EmbedBatch serves each text from the cache where possible and
// forwards only the misses to the inner service in one batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	var missTexts []string
	var missIndexes []int

	for i, text := range texts {
		key := cachefile.Key(s.inner.ModelName(), text)
		payload, ok, err := s.cache.Get(Namespace, key)
		if err != nil {
			return nil, fmt.Errorf("reading embedding cache: %w", err)
		}
		if !ok {
			missTexts = append(missTexts, text)
			missIndexes = append(missIndexes, i)
			continue
		}
		vec, err := decodeVector(payload)
		if err != nil {
			return nil, fmt.Errorf("cached embedding for key %s: %w", key, err)
		}
		embeddings[i] = vec
	}

	if len(missTexts) == 0 {
		return embeddings, nil
	}

	computed, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missTexts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(computed), len(missTexts))
	}

	for j, vec := range computed {
		i := missIndexes[j]
		embeddings[i] = vec
		key := cachefile.Key(s.inner.ModelName(), missTexts[j])
		if err := s.cache.Set(Namespace, key, encodeVector(vec)); err != nil {
			return nil, fmt.Errorf("writing embedding cache: %w", err)
		}
	}

	return embeddings, nil
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping forwards to the inner service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the inner service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}

// encodeVector serializes a vector as little-endian float32.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector deserializes a little-endian float32 vector.
func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("payload length %d is not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
