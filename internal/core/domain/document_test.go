package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk_Citation_Format(t *testing.T) {
	chunk := Chunk{
		DocumentID: "doc-1",
		SectionID:  "sec-1",
		StartPage:  0,
		EndPage:    2,
		StartLine:  4,
		EndLine:    9,
	}

	assert.Equal(t, "【doc:doc-1 §sec-1 p.1-3 | L4-9】", chunk.Citation())
}

func TestChunk_Citation_RootSectionFallback(t *testing.T) {
	chunk := Chunk{DocumentID: "doc-1"}

	citation := chunk.Citation()
	assert.Contains(t, citation, "§root")
	assert.True(t, strings.HasPrefix(citation, CitationOpen))
	assert.True(t, strings.HasSuffix(citation, CitationClose))
}

func TestChunk_Citation_PagesAlwaysOneIndexed(t *testing.T) {
	pattern := regexp.MustCompile(`^【doc:[^ ]+ §[^ ]+ p\.(\d+)-(\d+) \| L(\d+)-(\d+)】$`)

	cases := []struct {
		name  string
		chunk Chunk
	}{
		{"zero pages", Chunk{DocumentID: "d", StartPage: 0, EndPage: 0}},
		{"end before start", Chunk{DocumentID: "d", StartPage: 3, EndPage: 1}},
		{"missing lines", Chunk{DocumentID: "d", StartLine: 0, EndLine: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matches := pattern.FindStringSubmatch(tc.chunk.Citation())
			assert.NotNil(t, matches, "citation must match canonical format")
		})
	}
}
