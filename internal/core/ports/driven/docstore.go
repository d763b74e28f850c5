package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DocumentStore persists documents, sections, and chunks.
// Backed by SQLite for durable storage. The core treats it as a
// transactional sink and never depends on a specific query language.
type DocumentStore interface {
	// InsertDocumentBundle stores a document with its sections and chunks
	// in a single transaction. Either everything is persisted or nothing.
	InsertDocumentBundle(ctx context.Context, doc *domain.Document, sections []domain.Section, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByHash retrieves a document by content hash.
	GetDocumentByHash(ctx context.Context, contentHash string) (*domain.Document, error)

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// FetchChunks retrieves chunks ordered by character offset.
	// An empty documentID fetches chunks for all documents.
	FetchChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocumentByHash removes a document and its sections and
	// chunks. Deleting an unknown hash is not an error.
	DeleteDocumentByHash(ctx context.Context, contentHash string) error

	// CountChunks reports the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
