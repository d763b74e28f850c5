// Package ai provides factory functions for creating embedding and
// vector index adapters from application settings.
package ai

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	cachedembed "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/cached"
	offlineembed "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/offline"
	ollamaembed "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/openai"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/vectorindex/matrix"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/vectorindex/qdrant"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex
	Warnings         []string // Non-fatal issues that caused fallback.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
}

// InitServices creates the embedding service and vector index from
// settings. The embedding service is wrapped in the content cache so
// repeat texts are never re-embedded. A configured but unreachable
// Qdrant backend falls back to the in-process matrix index with a
// warning, so the same corpus keeps working either way.
func InitServices(ctx context.Context, settings domain.AppSettings, cache driven.ContentCache) (*InitResult, error) {
	embedder, err := CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, err
	}

	result := &InitResult{
		EmbeddingService: cachedembed.NewEmbeddingService(embedder, cache),
	}

	index, warning, err := createVectorIndex(ctx, settings, embedder.Dimensions())
	if err != nil {
		embedder.Close()
		return nil, err
	}
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.VectorIndex = index

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity. Returns an error with guidance on failure.
func CreateAndValidateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [embedding] section of your config",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [embedding] section of your config",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service
// based on settings. An unset provider means offline.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.EmbeddingProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.EmbeddingProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.EmbeddingProviderOffline, "":
		return offlineembed.NewEmbeddingService(settings.Dimensions)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// createVectorIndex creates the configured vector index backend. The
// returned warning is non-empty when a fallback occurred.
func createVectorIndex(ctx context.Context, settings domain.AppSettings, dimensions int) (driven.VectorIndex, string, error) {
	vs := settings.VectorIndex
	if vs.Backend == domain.VectorBackendQdrant {
		idx, err := qdrant.New(ctx, qdrant.Config{
			URL:        vs.QdrantURL,
			APIKey:     vs.QdrantAPIKey,
			Collection: vs.Collection,
			Dimension:  dimensions,
		})
		if err == nil {
			return idx, "", nil
		}
		warning := fmt.Sprintf("qdrant unavailable, using local index: %v", err)
		fallback, ferr := createMatrixIndex(settings)
		return fallback, warning, ferr
	}

	idx, err := createMatrixIndex(settings)
	return idx, "", err
}

// createMatrixIndex opens the in-process index under the data directory.
func createMatrixIndex(settings domain.AppSettings) (driven.VectorIndex, error) {
	idx, err := matrix.New(filepath.Join(settings.DataDir, "index"))
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}
	return idx, nil
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}
