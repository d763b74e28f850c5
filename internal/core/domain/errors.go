package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. The set is closed:
// callers pattern-match with errors.Is to decide recovery policy.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates invalid component configuration.
	// Fatal: rejected at construction, never at call time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyExtraction indicates a document yielded no text.
	// Ingestion of the document is aborted; nothing is persisted.
	ErrEmptyExtraction = errors.New("no text extracted from document")

	// Vector index invariant violations. The offending insert is
	// aborted and must not corrupt existing entries.

	// ErrZeroVector indicates an embedding with zero L2 norm was offered
	// to the index. Zero vectors are never silently stored.
	ErrZeroVector = errors.New("zero-length embedding")

	// ErrDimensionMismatch indicates an embedding whose dimension differs
	// from the dimension fixed by the index's first insert.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndexCorrupted indicates persisted index metadata references an
	// id with no matching vector row. Fatal on load, never auto-repaired.
	ErrIndexCorrupted = errors.New("vector index corrupted")

	// Composer gate failures. These are surfaced to the caller as typed,
	// user-visible errors - never silently degraded into an uncited
	// answer. Failing loudly here is the feature.

	// ErrNoEvidence indicates the evidence list was empty.
	ErrNoEvidence = errors.New("no evidence supplied for answer")

	// ErrSummarizationFailed indicates every hit produced an empty summary.
	ErrSummarizationFailed = errors.New("unable to summarize evidence with citations")

	// ErrMissingCitation indicates an assembled answer line lacked its
	// citation marker.
	ErrMissingCitation = errors.New("evidence bullet lacks citation")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval is impossible without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates no vector index backend could
	// be constructed.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
