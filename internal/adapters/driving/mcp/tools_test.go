package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func evidence(id, content string) domain.RankedHit {
	chunk := domain.Chunk{
		ID:         id,
		DocumentID: "doc-1",
		SectionID:  "root",
		Content:    content,
		StartLine:  1,
		EndLine:    2,
	}
	return domain.RankedHit{
		Chunk:       chunk,
		Score:       0.8,
		LexicalHits: 2,
		Citation:    chunk.Citation(),
	}
}

func TestHandleSearch(t *testing.T) {
	t.Run("maps hits to output", func(t *testing.T) {
		research := &mockResearchService{output: &domain.ResearchOutput{
			Hits:      []domain.RankedHit{evidence("c1", "first passage"), evidence("c2", "second passage")},
			Exhausted: true,
		}}
		server, err := NewServer(&Ports{Research: research, Answer: &mockAnswerService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Question: "q"})
		require.NoError(t, err)

		assert.Equal(t, 2, output.Count)
		assert.True(t, output.Exhausted)
		assert.Equal(t, "doc-1", output.Hits[0].DocumentID)
		assert.Equal(t, "first passage", output.Hits[0].Content)
		assert.Contains(t, output.Hits[0].Citation, domain.CitationOpen)
		assert.Equal(t, 2, output.Hits[0].LexicalHits)
	})

	t.Run("propagates retrieval errors", func(t *testing.T) {
		research := &mockResearchService{err: errors.New("index offline")}
		server, err := NewServer(&Ports{Research: research, Answer: &mockAnswerService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(context.Background(), nil, SearchInput{Question: "q"})
		require.Error(t, err)
	})
}

func TestHandleAsk(t *testing.T) {
	t.Run("returns answer and citations", func(t *testing.T) {
		hit := evidence("c1", "the relevant passage")
		answer := &mockAnswerService{
			answer: "### Answer\n\n- the relevant passage " + hit.Citation,
			hits:   []domain.RankedHit{hit},
		}
		server, err := NewServer(&Ports{Research: &mockResearchService{}, Answer: answer})
		require.NoError(t, err)

		_, output, err := server.handleAsk(context.Background(), nil, AskInput{Question: "q"})
		require.NoError(t, err)

		assert.Contains(t, output.Answer, "### Answer")
		require.Len(t, output.Citations, 1)
		assert.Equal(t, hit.Citation, output.Citations[0])
	})

	t.Run("propagates no evidence errors", func(t *testing.T) {
		answer := &mockAnswerService{err: domain.ErrNoEvidence}
		server, err := NewServer(&Ports{Research: &mockResearchService{}, Answer: answer})
		require.NoError(t, err)

		_, _, err = server.handleAsk(context.Background(), nil, AskInput{Question: "q"})
		require.ErrorIs(t, err, domain.ErrNoEvidence)
	})
}
