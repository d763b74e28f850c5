// Package plaintext extracts pages from plain text files. Form feed
// characters mark page boundaries; a file without them is one page.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads text files as page sequences.
type Extractor struct{}

// NewExtractor creates a plain text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the file's pages, split on form feed.
func (e *Extractor) Extract(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return strings.Split(string(data), "\f"), nil
}
