package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cachefile "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/cache/file"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/offline"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/extraction"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/vectorindex/matrix"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/lexical"
	"github.com/veridoc-labs/veridoc-cli/internal/segment"
)

// testEnv wires real in-process adapters behind the services under
// test. The offline embedder keeps runs deterministic and hermetic.
type testEnv struct {
	store    *memory.DocumentStore
	index    *matrix.Index
	embedder driven.EmbeddingService
	cache    driven.ContentCache
	ingest   *IngestService
	research *ResearchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewDocumentStore()
	index, err := matrix.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	embedder, err := offline.NewEmbeddingService(64)
	require.NoError(t, err)

	cache, err := cachefile.NewContentCache(t.TempDir())
	require.NoError(t, err)

	segmenter, err := segment.New(40, 0.1)
	require.NoError(t, err)
	normalizer := lexical.New(64)

	ingest := NewIngestService(store, index, embedder, cache, segmenter, normalizer, extraction.ForPath)
	research := NewResearchService(store, index, embedder, normalizer, 6)

	return &testEnv{
		store:    store,
		index:    index,
		embedder: embedder,
		cache:    cache,
		ingest:   ingest,
		research: research,
	}
}

func mustSegmenter(t *testing.T) *segment.Segmenter {
	t.Helper()
	s, err := segment.New(40, 0.1)
	require.NoError(t, err)
	return s
}

func mustNormalizer() *lexical.Normalizer {
	return lexical.New(64)
}

// writeSourceFile drops content into a temp file and returns its path.
func writeSourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ==================== Fakes ====================

// stubIndex is a scripted VectorIndex for exercising ranking paths.
type stubIndex struct {
	hits      []driven.VectorHit
	upsertErr error
	upserts   [][]driven.VectorItem
	deletes   [][]string
}

var _ driven.VectorIndex = (*stubIndex)(nil)

func (s *stubIndex) Upsert(_ context.Context, items []driven.VectorItem) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, items)
	return nil
}

func (s *stubIndex) Delete(_ context.Context, ids []string) error {
	s.deletes = append(s.deletes, ids)
	return nil
}

func (s *stubIndex) Search(_ context.Context, _ []float32, limit int) ([]driven.VectorHit, error) {
	if limit > 0 && limit < len(s.hits) {
		return s.hits[:limit], nil
	}
	return s.hits, nil
}

func (s *stubIndex) Count(_ context.Context) (int, error) { return len(s.hits), nil }

func (s *stubIndex) GetEmbeddings(_ context.Context, _ []string) (map[string][]float32, error) {
	return map[string][]float32{}, nil
}

func (s *stubIndex) Close() error { return nil }
