package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testBundle(docID, hash string) (*domain.Document, []domain.Section, []domain.Chunk) {
	doc := &domain.Document{
		ID:          docID,
		ContentHash: hash,
		Title:       "Test Document",
		URI:         "/tmp/test.pdf",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	sections := []domain.Section{
		{ID: "root", DocumentID: docID, Title: "Test Document", Level: 0, StartPage: 0, EndPage: 1},
	}
	chunks := []domain.Chunk{
		{
			ID: docID + "-c0", DocumentID: docID, SectionID: "root",
			Content: "first chunk", TokenCount: 2,
			CharStart: 0, CharEnd: 11, StartPage: 0, EndPage: 0,
			StartLine: 1, EndLine: 1,
			Embedding: []float32{0.1, 0.2, 0.3}, Lexical: "chunk first",
		},
		{
			ID: docID + "-c1", DocumentID: docID, SectionID: "root",
			Content: "second chunk", TokenCount: 2,
			CharStart: 11, CharEnd: 23, StartPage: 1, EndPage: 1,
			StartLine: 2, EndLine: 2,
			Embedding: []float32{0.4, 0.5, 0.6}, Lexical: "chunk second",
		},
	}
	return doc, sections, chunks
}

func TestInsertDocumentBundle_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, sections, chunks := testBundle("d1", "hash-1")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc, sections, chunks))

	got, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.ContentHash)
	assert.Equal(t, "Test Document", got.Title)

	byHash, err := store.GetDocumentByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "d1", byHash.ID)

	gotChunks, err := store.FetchChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, gotChunks, 2)
	assert.Equal(t, "d1-c0", gotChunks[0].ID)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, gotChunks[0].Embedding)
	assert.Equal(t, "chunk first", gotChunks[0].Lexical)

	gotSections, err := store.GetSections(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, gotSections, 1)
	assert.Equal(t, "root", gotSections[0].ID)
}

func TestInsertDocumentBundle_RejectsMissingIdentity(t *testing.T) {
	store := newTestStore(t)

	err := store.InsertDocumentBundle(context.Background(), &domain.Document{ID: "d1"}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.InsertDocumentBundle(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInsertDocumentBundle_DuplicateHashFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, sections, chunks := testBundle("d1", "hash-1")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc, sections, chunks))

	dup, dupSections, dupChunks := testBundle("d2", "hash-1")
	err := store.InsertDocumentBundle(ctx, dup, dupSections, dupChunks)
	require.Error(t, err)

	// The failed insert must leave nothing behind.
	_, err = store.GetDocument(ctx, "d2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, sections, chunks := testBundle("d1", "hash-1")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc, sections, chunks))

	chunk, err := store.GetChunk(ctx, "d1-c1")
	require.NoError(t, err)
	assert.Equal(t, "second chunk", chunk.Content)
	assert.Equal(t, 2, chunk.StartLine)

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchChunks_EmptyIDFetchesAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc1, s1, c1 := testBundle("d1", "hash-1")
	doc2, s2, c2 := testBundle("d2", "hash-2")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc1, s1, c1))
	require.NoError(t, store.InsertDocumentBundle(ctx, doc2, s2, c2))

	all, err := store.FetchChunks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	one, err := store.FetchChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, one, 2)
}

func TestDeleteDocumentByHash_CascadesAndIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, sections, chunks := testBundle("d1", "hash-1")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc, sections, chunks))

	require.NoError(t, store.DeleteDocumentByHash(ctx, "hash-1"))

	_, err := store.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := store.FetchChunks(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	gotSections, err := store.GetSections(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, gotSections)

	// Unknown hash is not an error.
	assert.NoError(t, store.DeleteDocumentByHash(ctx, "hash-1"))
}

func TestCountChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	doc, sections, chunks := testBundle("d1", "hash-1")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc, sections, chunks))

	count, err = store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestListDocuments_OrderedByCreation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older, s1, c1 := testBundle("d1", "hash-1")
	newer, s2, c2 := testBundle("d2", "hash-2")
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	require.NoError(t, store.InsertDocumentBundle(ctx, newer, s2, c2))
	require.NoError(t, store.InsertDocumentBundle(ctx, older, s1, c1))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d2", docs[1].ID)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	doc, sections, chunks := testBundle("d1", "hash-1")
	require.NoError(t, store.InsertDocumentBundle(ctx, doc, sections, chunks))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDocumentByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
}
