package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Question string `json:"question" jsonschema:"the question to find supporting evidence for"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of evidence hits to return (default 6)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Hits      []HitOutput `json:"hits"`
	Count     int         `json:"count"`
	Exhausted bool        `json:"exhausted"`
}

// HitOutput represents a single evidence hit.
type HitOutput struct {
	DocumentID  string  `json:"document_id"`
	SectionID   string  `json:"section_id"`
	Citation    string  `json:"citation"`
	Score       float64 `json:"score"`
	LexicalHits int     `json:"lexical_hits"`
	StartPage   int     `json:"start_page"`
	EndPage     int     `json:"end_page"`
	Content     string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested corpus"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of evidence hits to draw on (default 6)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve cited evidence passages for a question",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the ingested corpus; every bullet carries a citation",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	output, err := s.ports.Research.Search(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	result := SearchOutput{
		Hits:      make([]HitOutput, len(output.Hits)),
		Count:     len(output.Hits),
		Exhausted: output.Exhausted,
	}
	for i, hit := range output.Hits {
		result.Hits[i] = HitOutput{
			DocumentID:  hit.Chunk.DocumentID,
			SectionID:   hit.Chunk.SectionID,
			Citation:    hit.Citation,
			Score:       hit.Score,
			LexicalHits: hit.LexicalHits,
			StartPage:   hit.Chunk.StartPage,
			EndPage:     hit.Chunk.EndPage,
			Content:     hit.Chunk.Content,
		}
	}

	return nil, result, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, hits, err := s.ports.Answer.Ask(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	citations := make([]string, len(hits))
	for i, hit := range hits {
		citations[i] = hit.Citation
	}

	return nil, AskOutput{Answer: answer, Citations: citations}, nil
}
