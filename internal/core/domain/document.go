package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested document.
// Identity is the SHA-256 of the source bytes: re-ingesting identical
// bytes replaces the previous rows for the same hash wholesale.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// ContentHash is the hex-encoded SHA-256 of the source bytes.
	ContentHash string

	// Title is the human-readable title.
	Title string

	// URI is the original location (file path, URL, etc).
	URI string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Section represents a logical division within a document.
// Every document has at least one root section spanning all pages.
type Section struct {
	// ID is the unique identifier for the section.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Title is the section heading.
	Title string

	// Level is the heading depth (1 = root).
	Level int

	// StartPage and EndPage are 0-indexed inclusive page bounds.
	StartPage int
	EndPage   int
}

// Chunk is the atomic unit of retrieval: a contiguous, possibly
// overlapping character range of a document's text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// SectionID links to the enclosing Section.
	SectionID string

	// Content is the chunk text.
	Content string

	// TokenCount is the number of whitespace-delimited tokens.
	TokenCount int

	// CharStart and CharEnd are the half-open [start, end) character
	// offsets into the document text. CharStart < CharEnd always holds.
	CharStart int
	CharEnd   int

	// StartPage and EndPage are 0-indexed inclusive page bounds.
	StartPage int
	EndPage   int

	// StartLine and EndLine are 1-indexed line bounds.
	StartLine int
	EndLine   int

	// Embedding is the unit-normalized vector representation.
	// Empty means no embedding has been attached yet.
	Embedding []float32

	// Lexical is the normalized, space-joined token set of Content,
	// used for keyword overlap scoring.
	Lexical string
}

// Citation returns the canonical citation marker for the chunk.
// Stored pages are 0-indexed; the citation renders them 1-indexed.
// The format is a wire contract: consumers round-trip it unchanged.
func (c Chunk) Citation() string {
	section := c.SectionID
	if section == "" {
		section = "root"
	}
	endPage := c.EndPage
	if endPage < c.StartPage {
		endPage = c.StartPage
	}
	startLine := c.StartLine
	if startLine < 1 {
		startLine = 1
	}
	endLine := c.EndLine
	if endLine < startLine {
		endLine = startLine
	}
	return fmt.Sprintf("【doc:%s §%s p.%d-%d | L%d-%d】",
		c.DocumentID, section, c.StartPage+1, endPage+1, startLine, endLine)
}

// CitationOpen and CitationClose delimit a citation marker.
const (
	CitationOpen  = "【"
	CitationClose = "】"
)
