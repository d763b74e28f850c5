package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents across the durable store
// and the vector index.
type DocumentService struct {
	mu    sync.Mutex
	store driven.DocumentStore
	index driven.VectorIndex
}

// NewDocumentService creates a new document management service.
func NewDocumentService(store driven.DocumentStore, index driven.VectorIndex) *DocumentService {
	return &DocumentService{store: store, index: index}
}

// List returns all ingested documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// Delete removes the document with the given content hash along with
// its chunks and vectors. Deleting an unknown hash is a no-op.
func (s *DocumentService) Delete(ctx context.Context, contentHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.GetDocumentByHash(ctx, contentHash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("looking up document: %w", err)
	}

	chunks, err := s.store.FetchChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("fetching chunks: %w", err)
	}
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}

	if err := s.store.DeleteDocumentByHash(ctx, contentHash); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if len(ids) > 0 {
		if err := s.index.Delete(ctx, ids); err != nil {
			return fmt.Errorf("deleting vectors: %w", err)
		}
	}

	logger.Info("Deleted %q (%d chunks)", doc.Title, len(chunks))
	return nil
}
