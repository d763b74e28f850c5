package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// AnswerService composes cited answers from retrieved evidence.
type AnswerService interface {
	// Ask retrieves evidence for the question and composes a Markdown
	// answer in which every bullet carries a citation marker. Failures
	// are typed (domain.ErrNoEvidence, domain.ErrSummarizationFailed,
	// domain.ErrMissingCitation) and never degraded into uncited text.
	Ask(ctx context.Context, question string, k int) (string, []domain.RankedHit, error)

	// Compose builds the cited answer from already-retrieved evidence.
	Compose(question string, hits []domain.RankedHit) (string, error)
}
