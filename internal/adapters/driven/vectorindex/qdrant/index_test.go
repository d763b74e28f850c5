package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// fakeQdrant records requests and serves canned responses per path.
type fakeQdrant struct {
	mux      *http.ServeMux
	requests []string
}

func newFakeQdrant(t *testing.T) (*fakeQdrant, *httptest.Server) {
	t.Helper()
	f := &fakeQdrant{mux: http.NewServeMux()}
	f.mux.HandleFunc("PUT /collections/docs", func(w http.ResponseWriter, _ *http.Request) {
		f.requests = append(f.requests, "create")
		w.Write([]byte(`{"result":true,"status":"ok"}`))
	})
	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestIndex(t *testing.T, srv *httptest.Server) *Index {
	t.Helper()
	idx, err := New(context.Background(), Config{
		URL:        srv.URL,
		Collection: "docs",
		Dimension:  3,
	})
	require.NoError(t, err)
	return idx
}

func TestNew_CreatesCollection(t *testing.T) {
	f, srv := newFakeQdrant(t)
	newTestIndex(t, srv)
	assert.Equal(t, []string{"create"}, f.requests)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Collection: "docs", Dimension: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = New(context.Background(), Config{URL: "http://localhost", Collection: "docs"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNew_UnreachableServerFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(context.Background(), Config{URL: srv.URL, Collection: "docs", Dimension: 3})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestUpsert_SendsNormalizedPoints(t *testing.T) {
	f, srv := newFakeQdrant(t)
	var captured struct {
		Points []struct {
			ID      string            `json:"id"`
			Vector  []float32         `json:"vector"`
			Payload map[string]string `json:"payload"`
		} `json:"points"`
	}
	f.mux.HandleFunc("PUT /collections/docs/points", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	idx := newTestIndex(t, srv)
	err := idx.Upsert(context.Background(), []driven.VectorItem{
		{ID: "c1", Embedding: []float32{3, 0, 0}, Metadata: map[string]string{"doc": "d1"}},
	})
	require.NoError(t, err)

	require.Len(t, captured.Points, 1)
	assert.Equal(t, "c1", captured.Points[0].ID)
	assert.InDelta(t, 1.0, captured.Points[0].Vector[0], 1e-6)
	assert.Equal(t, "d1", captured.Points[0].Payload["doc"])
}

func TestUpsert_ValidatesBeforeSending(t *testing.T) {
	f, srv := newFakeQdrant(t)
	idx := newTestIndex(t, srv)

	err := idx.Upsert(context.Background(), []driven.VectorItem{
		{ID: "bad", Embedding: []float32{1, 0}},
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	err = idx.Upsert(context.Background(), []driven.VectorItem{
		{ID: "zero", Embedding: []float32{0, 0, 0}},
	})
	assert.ErrorIs(t, err, domain.ErrZeroVector)

	// Only the collection probe should have reached the server.
	assert.Equal(t, []string{"create"}, f.requests)
}

func TestSearch_DecodesHits(t *testing.T) {
	f, srv := newFakeQdrant(t)
	f.mux.HandleFunc("POST /collections/docs/points/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":[{"id":"c1","score":0.93},{"id":"c2","score":0.41}],"status":"ok"}`))
	})

	idx := newTestIndex(t, srv)
	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.InDelta(t, 0.93, hits[0].Score, 1e-9)
	assert.Equal(t, "c2", hits[1].ChunkID)
}

func TestSearch_RejectsMismatchedQuery(t *testing.T) {
	_, srv := newFakeQdrant(t)
	idx := newTestIndex(t, srv)

	_, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCount(t *testing.T) {
	f, srv := newFakeQdrant(t)
	f.mux.HandleFunc("POST /collections/docs/points/count", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":{"count":42},"status":"ok"}`))
	})

	idx := newTestIndex(t, srv)
	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestDelete_SendsIDs(t *testing.T) {
	f, srv := newFakeQdrant(t)
	var captured struct {
		Points []string `json:"points"`
	}
	f.mux.HandleFunc("POST /collections/docs/points/delete", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"result":{},"status":"ok"}`))
	})

	idx := newTestIndex(t, srv)
	require.NoError(t, idx.Delete(context.Background(), []string{"c1", "c2"}))
	assert.Equal(t, []string{"c1", "c2"}, captured.Points)
}

func TestGetEmbeddings(t *testing.T) {
	f, srv := newFakeQdrant(t)
	f.mux.HandleFunc("POST /collections/docs/points", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":[{"id":"c1","vector":[1,0,0]}],"status":"ok"}`))
	})

	idx := newTestIndex(t, srv)
	vecs, err := idx.GetEmbeddings(context.Background(), []string{"c1", "missing"})
	require.NoError(t, err)

	require.Contains(t, vecs, "c1")
	assert.NotContains(t, vecs, "missing")
	assert.Equal(t, []float32{1, 0, 0}, vecs["c1"])
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	f, srv := newFakeQdrant(t)
	f.mux.HandleFunc("POST /collections/docs/points/search", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	idx := newTestIndex(t, srv)
	_, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
