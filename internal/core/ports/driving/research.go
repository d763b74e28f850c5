package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// ResearchService performs hybrid semantic + lexical retrieval.
type ResearchService interface {
	// Search returns up to k ranked evidence hits with citations.
	// "No matches" is an empty hit list, not an error.
	Search(ctx context.Context, question string, k int) (*domain.ResearchOutput, error)
}
