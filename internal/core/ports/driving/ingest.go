package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// IngestService ingests source files into the knowledge base.
type IngestService interface {
	// Ingest extracts, segments, embeds, and persists one document.
	// Ingestion is all-or-nothing: on failure no partial state remains
	// visible. Re-ingesting byte-identical content is idempotent and
	// served from cache. An empty title defaults to the file stem.
	Ingest(ctx context.Context, path, title string) (*domain.IngestResult, error)
}
