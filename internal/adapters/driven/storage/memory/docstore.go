// Package memory provides in-memory implementations of driven ports,
// used in tests and wherever durability is not needed.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document // by id
	byHash    map[string]string          // content hash -> id
	sections  map[string][]domain.Section
	chunks    map[string][]domain.Chunk
	order     []string // insertion order of document ids
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		byHash:    make(map[string]string),
		sections:  make(map[string][]domain.Section),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// InsertDocumentBundle stores a document with its sections and chunks.
func (s *DocumentStore) InsertDocumentBundle(_ context.Context, doc *domain.Document, sections []domain.Section, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" || doc.ContentHash == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[doc.ID]; exists {
		return domain.ErrInvalidInput
	}
	if _, exists := s.byHash[doc.ContentHash]; exists {
		return domain.ErrInvalidInput
	}

	s.documents[doc.ID] = *doc
	s.byHash[doc.ContentHash] = doc.ID
	s.sections[doc.ID] = append([]domain.Section(nil), sections...)

	sorted := append([]domain.Chunk(nil), chunks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CharStart < sorted[j].CharStart
	})
	s.chunks[doc.ID] = sorted
	s.order = append(s.order, doc.ID)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByHash retrieves a document by content hash.
func (s *DocumentStore) GetDocumentByHash(_ context.Context, contentHash string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[contentHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.documents[id]
	return &doc, nil
}

// ListDocuments returns all documents in insertion order.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.documents[id])
	}
	return docs, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// FetchChunks retrieves chunks ordered by character offset. An empty
// documentID fetches chunks for all documents.
func (s *DocumentStore) FetchChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if documentID != "" {
		return append([]domain.Chunk(nil), s.chunks[documentID]...), nil
	}

	var all []domain.Chunk
	for _, id := range s.order {
		all = append(all, s.chunks[id]...)
	}
	return all, nil
}

// DeleteDocumentByHash removes a document and its sections and chunks.
func (s *DocumentStore) DeleteDocumentByHash(_ context.Context, contentHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byHash[contentHash]
	if !ok {
		return nil
	}

	delete(s.documents, id)
	delete(s.byHash, contentHash)
	delete(s.sections, id)
	delete(s.chunks, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CountChunks reports the number of stored chunks.
func (s *DocumentStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, chunks := range s.chunks {
		count += len(chunks)
	}
	return count, nil
}

// GetSections retrieves the section layout for a document.
func (s *DocumentStore) GetSections(_ context.Context, documentID string) ([]domain.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Section(nil), s.sections[documentID]...), nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}
