package mcp

import (
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Research provides hybrid retrieval.
	Research driving.ResearchService

	// Answer composes cited answers.
	Answer driving.AnswerService

	// Document manages ingested documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Research == nil {
		return ErrMissingResearchService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Document is optional; the resources degrade gracefully.
	return nil
}
