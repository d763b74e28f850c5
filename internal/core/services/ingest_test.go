package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

const sampleText = "The estuary survey recorded falling oxygen levels near the delta. " +
	"Sampling stations upstream showed no comparable decline. " +
	"A follow-up campaign is scheduled for the spring runoff period."

func TestIngestService_Ingest_PersistsDocumentAndVectors(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "survey.txt", sampleText)

	result, err := env.ingest.Ingest(context.Background(), path, "Estuary Survey")
	require.NoError(t, err)
	require.NotEmpty(t, result.DocumentID)
	require.Len(t, result.ContentHash, 64)
	require.Greater(t, result.ChunkCount, 0)

	doc, err := env.store.GetDocumentByHash(context.Background(), result.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, "Estuary Survey", doc.Title)
	assert.Equal(t, path, doc.URI)

	chunks, err := env.store.FetchChunks(context.Background(), result.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, result.ChunkCount)

	indexed, err := env.index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ChunkCount, indexed)
}

func TestIngestService_Ingest_ChunkMetadata(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "survey.txt", sampleText)

	result, err := env.ingest.Ingest(context.Background(), path, "")
	require.NoError(t, err)

	chunks, err := env.store.FetchChunks(context.Background(), result.DocumentID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.Equal(t, "root", chunk.SectionID)
		assert.Equal(t, sampleText[chunk.CharStart:chunk.CharEnd], chunk.Content)
		assert.GreaterOrEqual(t, chunk.EndLine, chunk.StartLine)
		assert.GreaterOrEqual(t, chunk.StartLine, 1)
		assert.NotEmpty(t, chunk.Lexical)
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIngestService_Ingest_TitleDefaultsToFileStem(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "quarterly-report.txt", sampleText)

	result, err := env.ingest.Ingest(context.Background(), path, "")
	require.NoError(t, err)

	doc, err := env.store.GetDocument(context.Background(), result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "quarterly-report", doc.Title)
}

func TestIngestService_Ingest_EmptyExtractionRejected(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "blank.txt", "   \n\t  \n")

	_, err := env.ingest.Ingest(context.Background(), path, "")
	require.ErrorIs(t, err, domain.ErrEmptyExtraction)

	count, err := env.index.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestService_Ingest_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ingest.Ingest(context.Background(), "/nonexistent/file.txt", "")
	require.Error(t, err)
}

func TestIngestService_Reingest_ReplacesPreviousVersion(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "survey.txt", sampleText)

	first, err := env.ingest.Ingest(context.Background(), path, "Survey")
	require.NoError(t, err)
	second, err := env.ingest.Ingest(context.Background(), path, "Survey")
	require.NoError(t, err)

	assert.Equal(t, first.ContentHash, second.ContentHash)
	assert.Equal(t, first.ChunkCount, second.ChunkCount)
	assert.NotEqual(t, first.DocumentID, second.DocumentID)

	docs, err := env.store.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	indexed, err := env.index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ChunkCount, indexed)

	// Old chunk ids must be gone from the store.
	_, err = env.store.FetchChunks(context.Background(), first.DocumentID)
	require.NoError(t, err)
	chunks, err := env.store.FetchChunks(context.Background(), second.DocumentID)
	require.NoError(t, err)
	assert.Len(t, chunks, second.ChunkCount)
}

func TestIngestService_Ingest_PageBreaksSpanPages(t *testing.T) {
	env := newTestEnv(t)
	page1 := strings.Repeat("alpha beta gamma delta. ", 10)
	page2 := strings.Repeat("epsilon zeta eta theta. ", 10)
	path := writeSourceFile(t, "paged.txt", page1+"\f"+page2)

	result, err := env.ingest.Ingest(context.Background(), path, "Paged")
	require.NoError(t, err)

	chunks, err := env.store.FetchChunks(context.Background(), result.DocumentID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	last := chunks[len(chunks)-1]
	assert.Equal(t, 1, last.EndPage, "final chunk should land on the second page")
	assert.Equal(t, 0, chunks[0].StartPage)
}

func TestIngestService_Ingest_IndexFailureRollsBackStore(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "survey.txt", sampleText)

	broken := &stubIndex{upsertErr: errors.New("index offline")}
	ingest := NewIngestService(env.store, broken, env.embedder, env.cache, mustSegmenter(t), mustNormalizer(), env.ingest.extractorFor)

	_, err := ingest.Ingest(context.Background(), path, "Survey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating vector index")

	docs, err := env.store.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs, "store must not reference unindexed chunks")
}

func TestIngestService_Reingest_ServedFromLayoutCache(t *testing.T) {
	env := newTestEnv(t)
	path := writeSourceFile(t, "survey.txt", sampleText)

	first, err := env.ingest.Ingest(context.Background(), path, "Survey")
	require.NoError(t, err)

	// Replace the source with different bytes at the same path. The
	// layout cache is keyed by content hash, so the change is seen.
	path2 := writeSourceFile(t, "survey.txt", sampleText+" Addendum follows.")
	second, err := env.ingest.Ingest(context.Background(), path2, "Survey")
	require.NoError(t, err)
	assert.NotEqual(t, first.ContentHash, second.ContentHash)
}
