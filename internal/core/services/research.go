package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/lexical"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure ResearchService implements the interface.
var _ driving.ResearchService = (*ResearchService)(nil)

const (
	// lexicalBonus is the score added per overlapping query term.
	lexicalBonus = 0.05

	// candidateFloor is the minimum number of vector candidates fetched
	// before reranking.
	candidateFloor = 12

	// poolFloor is the minimum rerank pool retained before the final
	// truncation to k.
	poolFloor = 8
)

// ResearchService ranks stored chunks against a question using vector
// similarity blended with lexical term overlap.
type ResearchService struct {
	store      driven.DocumentStore
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	normalizer *lexical.Normalizer
	topK       int
}

// NewResearchService creates a new hybrid retrieval service. topK is
// the result count used when a query does not specify one.
func NewResearchService(
	store driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	normalizer *lexical.Normalizer,
	topK int,
) *ResearchService {
	if topK <= 0 {
		topK = domain.DefaultAppSettings().Retrieval.TopK
	}
	return &ResearchService{
		store:      store,
		index:      index,
		embedder:   embedder,
		normalizer: normalizer,
		topK:       topK,
	}
}

// Search embeds the question, gathers an over-fetched candidate pool
// from the vector index, reranks it with the lexical bonus, and
// returns the top k hits. A blank question short-circuits to an empty,
// exhausted result without touching the index.
func (s *ResearchService) Search(ctx context.Context, question string, k int) (*domain.ResearchOutput, error) {
	logger.Section("Retrieval")

	if strings.TrimSpace(question) == "" {
		return &domain.ResearchOutput{Exhausted: true}, nil
	}
	if k <= 0 {
		k = s.topK
	}
	logger.Debug("Question: %q (k=%d)", question, k)

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	candidateLimit := k
	if candidateLimit < candidateFloor {
		candidateLimit = candidateFloor
	}
	vectorHits, err := s.index.Search(ctx, embedding, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("searching vector index: %w", err)
	}
	logger.Debug("Vector candidates: %d", len(vectorHits))

	terms := s.normalizer.Normalize(question)
	ranked := s.rerank(ctx, vectorHits, terms)

	pool := k
	if pool < poolFloor {
		pool = poolFloor
	}
	if len(ranked) > pool {
		ranked = ranked[:pool]
	}

	hits := ranked
	if len(hits) > k {
		hits = hits[:k]
	}
	logger.Debug("Returning %d hits", len(hits))

	return &domain.ResearchOutput{
		Hits:      hits,
		Exhausted: len(ranked) <= k,
	}, nil
}

// rerank hydrates vector hits from the store and orders them by the
// blended score. Hits whose chunks are no longer stored are dropped.
func (s *ResearchService) rerank(ctx context.Context, vectorHits []driven.VectorHit, terms []string) []domain.RankedHit {
	ranked := make([]domain.RankedHit, 0, len(vectorHits))
	for _, hit := range vectorHits {
		chunk, err := s.store.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Skipping unindexed chunk %s", hit.ChunkID)
				continue
			}
			logger.Warn("Loading chunk %s failed: %v", hit.ChunkID, err)
			continue
		}

		overlap := lexical.CountOverlap(chunk.Lexical, terms)
		ranked = append(ranked, domain.RankedHit{
			Chunk:       *chunk,
			Score:       hit.Score + lexicalBonus*float64(overlap),
			LexicalHits: overlap,
			Citation:    chunk.Citation(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].LexicalHits > ranked[j].LexicalHits
	})
	return ranked
}
