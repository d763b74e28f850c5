// Package pdf extracts text from PDF files without any native
// dependencies. It scans content streams for literal string operands,
// which recovers the text of simple, uncompressed PDFs. Compressed
// streams yield no fragments; callers see that as an empty extraction
// rather than an error.
package pdf

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

var (
	streamPattern = regexp.MustCompile(`(?s)stream(.*?)endstream`)
	textPattern   = regexp.MustCompile(`\((.*?)\)`)
)

// Extractor pulls literal text operands out of PDF content streams.
type Extractor struct{}

// NewExtractor creates a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the document text as a single page. Page boundaries
// are not recoverable from raw content streams, so the whole document
// collapses to page zero.
func (e *Extractor) Extract(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var fragments []string
	for _, stream := range streamPattern.FindAllSubmatch(data, -1) {
		for _, text := range textPattern.FindAllSubmatch(stream[1], -1) {
			fragment := decodeText(text[1])
			if strings.TrimSpace(fragment) != "" {
				fragments = append(fragments, fragment)
			}
		}
	}

	return []string{strings.Join(fragments, "\n")}, nil
}

// decodeText interprets a literal string operand: bytes are Latin-1
// and backslash escapes cover the common cases.
func decodeText(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}

	text := string(runes)
	replacer := strings.NewReplacer(
		`\r`, "\r",
		`\n`, "\n",
		`\t`, "\t",
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
	)
	return replacer.Replace(text)
}
