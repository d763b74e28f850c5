package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

const (
	// summarySentences is the number of leading sentences kept per hit.
	summarySentences = 2

	// summaryMaxChars caps each bullet's summary text.
	summaryMaxChars = 500

	answerHeader = "### Answer"
)

// sentenceBoundary matches whitespace following sentence punctuation.
var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// AnswerService composes Markdown answers from retrieved evidence.
// Every bullet in an answer carries a citation marker; answers that
// cannot be fully cited are rejected rather than emitted.
type AnswerService struct {
	research driving.ResearchService
}

// NewAnswerService creates a new answer composition service.
func NewAnswerService(research driving.ResearchService) *AnswerService {
	return &AnswerService{research: research}
}

// Ask retrieves evidence for the question and composes the answer.
func (s *AnswerService) Ask(ctx context.Context, question string, k int) (string, []domain.RankedHit, error) {
	output, err := s.research.Search(ctx, question, k)
	if err != nil {
		return "", nil, err
	}

	answer, err := s.Compose(question, output.Hits)
	if err != nil {
		return "", nil, err
	}
	return answer, output.Hits, nil
}

// Compose builds a cited Markdown answer from the hits and validates
// it before returning.
func (s *AnswerService) Compose(question string, hits []domain.RankedHit) (string, error) {
	logger.Section("Composition")

	if len(hits) == 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrNoEvidence, question)
	}

	bullets := make([]string, 0, len(hits))
	for _, hit := range hits {
		summary := summarize(hit.Chunk.Content)
		if summary == "" {
			continue
		}
		bullets = append(bullets, fmt.Sprintf("- %s %s", summary, hit.Citation))
	}
	if len(bullets) == 0 {
		return "", domain.ErrSummarizationFailed
	}
	logger.Debug("Composed %d evidence bullets", len(bullets))

	answer := answerHeader + "\n\n" + strings.Join(bullets, "\n")
	if err := validate(answer); err != nil {
		return "", err
	}
	return answer, nil
}

// summarize keeps the leading sentences of the content, capped in
// length. Returns "" when the content is purely whitespace.
func summarize(content string) string {
	text := strings.TrimSpace(content)
	if text == "" {
		return ""
	}

	sentences := splitSentences(text)
	if len(sentences) > summarySentences {
		sentences = sentences[:summarySentences]
	}
	summary := strings.TrimSpace(strings.Join(sentences, " "))
	if len(summary) > summaryMaxChars {
		summary = summary[:summaryMaxChars]
	}
	return summary
}

// splitSentences splits text on whitespace that follows sentence
// punctuation, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x00")
	return strings.Split(marked, "\x00")
}

// validate enforces the citation guarantee on an assembled answer:
// the marker delimiters must appear, and every evidence bullet must
// contain one.
func validate(answer string) error {
	if !strings.Contains(answer, domain.CitationOpen) || !strings.Contains(answer, domain.CitationClose) {
		return domain.ErrMissingCitation
	}
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") && !strings.Contains(trimmed, domain.CitationOpen) {
			return fmt.Errorf("%w: %s", domain.ErrMissingCitation, truncateForError(trimmed))
		}
	}
	return nil
}

func truncateForError(line string) string {
	const limit = 60
	if len(line) <= limit {
		return line
	}
	return line[:limit] + "..."
}
