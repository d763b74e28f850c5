// Package domain defines the core business entities for Veridoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document identified by its content hash
//   - Section: A logical division of a document
//   - Chunk: The atomic unit of retrieval, with offsets and embedding
//   - RankedHit: A transient, per-query retrieval result with citation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
