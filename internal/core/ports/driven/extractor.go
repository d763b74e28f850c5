package driven

import "context"

// PageExtractor supplies per-document page text. The core only consumes
// the ordered page texts; layout detection stays inside the adapter.
type PageExtractor interface {
	// Extract returns the ordered page texts for the file at path.
	// An unreadable file is an error; a readable file with no text
	// returns an empty slice (the caller decides whether that aborts).
	Extract(ctx context.Context, path string) ([]string, error)
}
