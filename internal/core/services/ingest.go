package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/lexical"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
	"github.com/veridoc-labs/veridoc-cli/internal/segment"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Cache namespaces and key suffixes for derived layout artifacts.
const (
	layoutNamespace   = "layouts"
	pagesKeySuffix    = ":pages:v1"
	sectionsKeySuffix = ":sections:v1"

	// rootSectionID names the section spanning the whole document.
	rootSectionID = "root"

	// embedBatchSize bounds the number of chunks per embedding request.
	embedBatchSize = 16

	// embedConcurrency bounds parallel embedding batches.
	embedConcurrency = 4
)

// ExtractorFor selects a page extractor for a path.
type ExtractorFor func(path string) driven.PageExtractor

// IngestService extracts, segments, embeds, and persists documents.
// Mutations are serialized through a single-writer mutex so the store
// and the vector index never diverge under concurrent ingestion.
type IngestService struct {
	mu           sync.Mutex
	store        driven.DocumentStore
	index        driven.VectorIndex
	embedder     driven.EmbeddingService
	cache        driven.ContentCache
	segmenter    *segment.Segmenter
	normalizer   *lexical.Normalizer
	extractorFor ExtractorFor
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	store driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	cache driven.ContentCache,
	segmenter *segment.Segmenter,
	normalizer *lexical.Normalizer,
	extractorFor ExtractorFor,
) *IngestService {
	return &IngestService{
		store:        store,
		index:        index,
		embedder:     embedder,
		cache:        cache,
		segmenter:    segmenter,
		normalizer:   normalizer,
		extractorFor: extractorFor,
	}
}

// pageLayout is the cached extraction result for a content hash.
type pageLayout struct {
	Pages []string `json:"pages"`
}

// Ingest processes one document end to end. Re-ingesting byte-identical
// content replaces the previous rows for the same hash wholesale; the
// layout and embedding caches make the repeat run cheap.
func (s *IngestService) Ingest(ctx context.Context, path, title string) (*domain.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Debug("Path: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}

	digest := sha256.Sum256(data)
	contentHash := hex.EncodeToString(digest[:])
	logger.Debug("Content hash: %s", contentHash)

	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	pages, err := s.loadPages(ctx, path, contentHash)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted %d pages", len(pages))

	if blank(pages) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyExtraction, path)
	}

	documentID := uuid.NewString()
	doc := &domain.Document{
		ID:          documentID,
		ContentHash: contentHash,
		Title:       title,
		URI:         path,
		CreatedAt:   time.Now().UTC(),
	}

	sections := []domain.Section{{
		ID:         rootSectionID,
		DocumentID: documentID,
		Title:      title,
		Level:      1,
		StartPage:  0,
		EndPage:    len(pages) - 1,
	}}
	s.cacheSections(contentHash, sections)

	chunks := s.buildChunks(documentID, pages)
	logger.Debug("Segmented into %d chunks", len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, doc, sections, chunks); err != nil {
		return nil, err
	}

	logger.Info("Ingested %q: %d chunks", title, len(chunks))
	return &domain.IngestResult{
		DocumentID:  documentID,
		ContentHash: contentHash,
		ChunkCount:  len(chunks),
	}, nil
}

// loadPages extracts page texts, served from the layout cache when the
// same bytes were seen before.
func (s *IngestService) loadPages(ctx context.Context, path, contentHash string) ([]string, error) {
	payload, err := s.cache.GetOrCompute(layoutNamespace, contentHash+pagesKeySuffix, func() ([]byte, error) {
		extractor := s.extractorFor(path)
		pages, err := extractor.Extract(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("extracting pages: %w", err)
		}
		return json.Marshal(pageLayout{Pages: pages})
	})
	if err != nil {
		return nil, err
	}

	var layout pageLayout
	if err := json.Unmarshal(payload, &layout); err != nil {
		return nil, fmt.Errorf("decoding cached layout: %w", err)
	}
	return layout.Pages, nil
}

// cacheSections records the section layout for the content hash.
// Failures are non-fatal: the layout is derivable from the store.
func (s *IngestService) cacheSections(contentHash string, sections []domain.Section) {
	payload, err := json.Marshal(sections)
	if err != nil {
		return
	}
	if err := s.cache.Set(layoutNamespace, contentHash+sectionsKeySuffix, payload); err != nil {
		logger.Warn("Caching section layout failed: %v", err)
	}
}

// buildChunks segments the concatenated page text and annotates each
// chunk with page, line, and lexical metadata.
func (s *IngestService) buildChunks(documentID string, pages []string) []domain.Chunk {
	text, ranges := joinPages(pages)
	segments := s.segmenter.Segment(text)

	chunks := make([]domain.Chunk, 0, len(segments))
	for _, seg := range segments {
		content := text[seg.CharStart:seg.CharEnd]

		lastChar := seg.CharEnd - 1
		if lastChar < seg.CharStart {
			lastChar = seg.CharStart
		}
		startPage, endPage := segment.LocatePages(ranges, seg.CharStart, seg.CharEnd)

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			SectionID:  rootSectionID,
			Content:    content,
			TokenCount: seg.TokenCount,
			CharStart:  seg.CharStart,
			CharEnd:    seg.CharEnd,
			StartPage:  startPage,
			EndPage:    endPage,
			StartLine:  segment.CharToLine(text, seg.CharStart),
			EndLine:    segment.CharToLine(text, lastChar),
			Lexical:    s.normalizer.Fingerprint(content),
		})
	}
	return chunks
}

// embedChunks fills in chunk embeddings, batching requests and running
// batches concurrently. Results keep chunk order.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Content
			}
			embeddings, err := s.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return fmt.Errorf("embedding chunks: %w", err)
			}
			if len(embeddings) != len(batch) {
				return fmt.Errorf("embedding service returned %d vectors for %d chunks", len(embeddings), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = embeddings[i]
			}
			return nil
		})
	}

	return g.Wait()
}

// commit replaces any previous version of the document and stages the
// vector index update after the store transaction. If the index update
// fails the fresh rows are rolled back, so the store never references
// chunks the index cannot serve.
func (s *IngestService) commit(ctx context.Context, doc *domain.Document, sections []domain.Section, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var staleIDs []string
	if existing, err := s.store.GetDocumentByHash(ctx, doc.ContentHash); err == nil {
		stale, err := s.store.FetchChunks(ctx, existing.ID)
		if err != nil {
			return fmt.Errorf("fetching previous chunks: %w", err)
		}
		for _, chunk := range stale {
			staleIDs = append(staleIDs, chunk.ID)
		}
		logger.Debug("Replacing previous ingestion %s (%d chunks)", existing.ID, len(stale))
	}

	if err := s.store.DeleteDocumentByHash(ctx, doc.ContentHash); err != nil {
		return fmt.Errorf("removing previous version: %w", err)
	}
	if err := s.store.InsertDocumentBundle(ctx, doc, sections, chunks); err != nil {
		return fmt.Errorf("persisting document: %w", err)
	}

	if len(staleIDs) > 0 {
		if err := s.index.Delete(ctx, staleIDs); err != nil {
			logger.Warn("Removing stale vectors failed: %v", err)
		}
	}

	items := make([]driven.VectorItem, len(chunks))
	for i, chunk := range chunks {
		items[i] = driven.VectorItem{
			ID:        chunk.ID,
			Embedding: chunk.Embedding,
			Metadata:  map[string]string{"document_id": chunk.DocumentID},
		}
	}
	if err := s.index.Upsert(ctx, items); err != nil {
		// Roll back the store so it never points at unindexed chunks.
		if rbErr := s.store.DeleteDocumentByHash(ctx, doc.ContentHash); rbErr != nil {
			logger.Warn("Rollback after index failure also failed: %v", rbErr)
		}
		newIDs := make([]string, len(chunks))
		for i, chunk := range chunks {
			newIDs[i] = chunk.ID
		}
		if delErr := s.index.Delete(ctx, newIDs); delErr != nil {
			logger.Warn("Removing partially indexed vectors failed: %v", delErr)
		}
		return fmt.Errorf("updating vector index: %w", err)
	}

	return nil
}

// joinPages concatenates page texts with newline separators and
// returns the character range each page occupies.
func joinPages(pages []string) (string, []segment.PageRange) {
	var sb strings.Builder
	ranges := make([]segment.PageRange, len(pages))

	offset := 0
	for i, page := range pages {
		start := offset
		sb.WriteString(page)
		offset += len(page)
		if i < len(pages)-1 {
			sb.WriteByte('\n')
			offset++
		}
		ranges[i] = segment.PageRange{Page: i, Start: start, End: offset}
	}
	return sb.String(), ranges
}

// blank reports whether every page is whitespace.
func blank(pages []string) bool {
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			return false
		}
	}
	return true
}
