// Package extraction selects a page extractor for a document path.
package extraction

import (
	"path/filepath"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/extraction/pdf"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/extraction/plaintext"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// ForPath returns the extractor for the file's type, judged by
// extension. Anything that is not a PDF is treated as plain text.
func ForPath(path string) driven.PageExtractor {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdf.NewExtractor()
	}
	return plaintext.NewExtractor()
}
