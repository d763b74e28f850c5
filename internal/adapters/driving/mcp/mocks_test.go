package mcp

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// mockResearchService is a mock implementation of driving.ResearchService.
type mockResearchService struct {
	output *domain.ResearchOutput
	err    error
}

func (m *mockResearchService) Search(
	_ context.Context,
	_ string,
	_ int,
) (*domain.ResearchOutput, error) {
	return m.output, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer string
	hits   []domain.RankedHit
	err    error
}

func (m *mockAnswerService) Ask(
	_ context.Context,
	_ string,
	_ int,
) (string, []domain.RankedHit, error) {
	return m.answer, m.hits, m.err
}

func (m *mockAnswerService) Compose(_ string, _ []domain.RankedHit) (string, error) {
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
