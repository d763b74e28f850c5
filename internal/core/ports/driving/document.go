package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document by content hash from both the durable
	// store and the vector index.
	Delete(ctx context.Context, contentHash string) error
}
