package domain

// RankedHit is a single retrieval result. It is produced transiently
// per query and never persisted.
type RankedHit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the combined ranking score: cosine similarity plus the
	// lexical bonus.
	Score float64

	// LexicalHits is the number of query terms present in the chunk's
	// lexical token set.
	LexicalHits int

	// Citation is the pre-rendered citation marker for the chunk.
	Citation string
}

// ResearchOutput is the payload returned by the hybrid retriever.
type ResearchOutput struct {
	// Hits are ranked best-first.
	Hits []RankedHit

	// Exhausted reports that no deeper candidates were available beyond
	// the returned hits.
	Exhausted bool
}

// IngestResult summarizes a successful ingestion run.
type IngestResult struct {
	// DocumentID is the id assigned to the ingested document.
	DocumentID string

	// ContentHash is the hex-encoded SHA-256 of the source bytes.
	ContentHash string

	// ChunkCount is the number of chunks persisted.
	ChunkCount int
}
