// Package matrix provides the default in-process vector index backend.
//
// Vectors are held as a dense row-major matrix plus an id-to-row map,
// and persisted by rewriting the full matrix and a JSON metadata
// sidecar on every mutation. There is no incremental log: simplicity
// wins over write amplification for corpora that fit in memory.
package matrix

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// File names within the index directory.
const (
	vectorsFile = "vectors.bin"
	metaFile    = "meta.json"
)

// meta is the JSON sidecar persisted next to the vector matrix.
type meta struct {
	IDs       []string                     `json:"ids"`
	Dimension int                          `json:"dimension"`
	Metadata  map[string]map[string]string `json:"metadata,omitempty"`
}

// Index stores unit-normalized vectors in memory and mirrors every
// mutation to disk. Reads take the read lock, so concurrent searches
// never observe a partially applied write.
type Index struct {
	mu        sync.RWMutex
	dir       string
	ids       []string
	rows      map[string]int
	vectors   []float32 // row-major, len = len(ids) * dimension
	dimension int
	metadata  map[string]map[string]string
}

// New opens or creates a matrix index in dir. A persisted index whose
// sidecar disagrees with the vector file is domain.ErrIndexCorrupted:
// fatal, never auto-repaired.
func New(dir string) (*Index, error) {
	if dir == "" {
		return nil, fmt.Errorf("matrix: index directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx := &Index{
		dir:      dir,
		rows:     make(map[string]int),
		metadata: make(map[string]map[string]string),
	}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

// load restores the matrix and sidecar from disk, if present.
func (idx *Index) load() error {
	metaBytes, err := os.ReadFile(filepath.Join(idx.dir, metaFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading index metadata: %w", err)
	}

	var m meta
	if err := json.Unmarshal(metaBytes, &m); err != nil {
		return fmt.Errorf("%w: unreadable metadata sidecar: %v", domain.ErrIndexCorrupted, err)
	}

	raw, err := os.ReadFile(filepath.Join(idx.dir, vectorsFile))
	if err != nil {
		if os.IsNotExist(err) && len(m.IDs) == 0 {
			return nil
		}
		return fmt.Errorf("%w: metadata present without vector file", domain.ErrIndexCorrupted)
	}

	if m.Dimension <= 0 && len(m.IDs) > 0 {
		return fmt.Errorf("%w: missing dimension for %d ids", domain.ErrIndexCorrupted, len(m.IDs))
	}
	want := len(m.IDs) * m.Dimension * 4
	if len(raw) != want {
		return fmt.Errorf("%w: vector file holds %d bytes, metadata expects %d", domain.ErrIndexCorrupted, len(raw), want)
	}

	idx.ids = m.IDs
	idx.dimension = m.Dimension
	if m.Metadata != nil {
		idx.metadata = m.Metadata
	}
	idx.vectors = bytesToFloat32(raw)
	for i, id := range idx.ids {
		idx.rows[id] = i
	}
	return nil
}

// persist rewrites the full matrix and sidecar. Both files go through a
// temp-and-rename so a crash never leaves a torn file behind.
func (idx *Index) persist() error {
	if err := writeFileAtomic(filepath.Join(idx.dir, vectorsFile), float32ToBytes(idx.vectors)); err != nil {
		return fmt.Errorf("writing vector file: %w", err)
	}

	m := meta{IDs: idx.ids, Dimension: idx.dimension, Metadata: idx.metadata}
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshalling index metadata: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(idx.dir, metaFile), payload); err != nil {
		return fmt.Errorf("writing metadata sidecar: %w", err)
	}
	return nil
}

// Upsert inserts or replaces vectors. Inputs are normalized to unit
// length; zero vectors and dimension mismatches abort the whole batch
// before any mutation, so existing entries are never corrupted.
func (idx *Index) Upsert(_ context.Context, items []driven.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Validate the full batch first.
	dimension := idx.dimension
	normalized := make([][]float32, len(items))
	for i, item := range items {
		vec, err := normalize(item.Embedding)
		if err != nil {
			return fmt.Errorf("item %q: %w", item.ID, err)
		}
		if dimension == 0 {
			dimension = len(vec)
		} else if len(vec) != dimension {
			return fmt.Errorf("item %q: %w: expected %d, got %d", item.ID, domain.ErrDimensionMismatch, dimension, len(vec))
		}
		normalized[i] = vec
	}

	idx.dimension = dimension
	for i, item := range items {
		if row, ok := idx.rows[item.ID]; ok {
			copy(idx.vectors[row*dimension:(row+1)*dimension], normalized[i])
		} else {
			idx.rows[item.ID] = len(idx.ids)
			idx.ids = append(idx.ids, item.ID)
			idx.vectors = append(idx.vectors, normalized[i]...)
		}
		if len(item.Metadata) > 0 {
			idx.metadata[item.ID] = item.Metadata
		}
	}

	return idx.persist()
}

// Delete removes ids and compacts the matrix. Unknown ids are ignored.
func (idx *Index) Delete(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}

	kept := idx.ids[:0:0]
	var vectors []float32
	for row, id := range idx.ids {
		if _, gone := remove[id]; gone {
			delete(idx.metadata, id)
			continue
		}
		kept = append(kept, id)
		vectors = append(vectors, idx.vectors[row*idx.dimension:(row+1)*idx.dimension]...)
	}
	if len(kept) == len(idx.ids) {
		return nil
	}

	idx.ids = kept
	idx.vectors = vectors
	idx.rows = make(map[string]int, len(kept))
	for i, id := range kept {
		idx.rows[id] = i
	}

	return idx.persist()
}

// Search returns up to limit hits ordered by descending cosine
// similarity; ties keep insertion order.
func (idx *Index) Search(_ context.Context, query []float32, limit int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.ids) == 0 {
		return nil, nil
	}
	q, err := normalize(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(q) != idx.dimension {
		return nil, fmt.Errorf("query: %w: expected %d, got %d", domain.ErrDimensionMismatch, idx.dimension, len(q))
	}

	hits := make([]driven.VectorHit, len(idx.ids))
	for row, id := range idx.ids {
		hits[row] = driven.VectorHit{ChunkID: id, Score: dot(idx.vectors[row*idx.dimension:(row+1)*idx.dimension], q)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit <= 0 || limit > len(hits) {
		limit = len(hits)
	}
	return hits[:limit], nil
}

// Count reports the number of live entries.
func (idx *Index) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids), nil
}

// GetEmbeddings returns the stored embeddings for the given ids.
func (idx *Index) GetEmbeddings(_ context.Context, ids []string) (map[string][]float32, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string][]float32, len(ids))
	for _, id := range ids {
		row, ok := idx.rows[id]
		if !ok {
			continue
		}
		vec := make([]float32, idx.dimension)
		copy(vec, idx.vectors[row*idx.dimension:(row+1)*idx.dimension])
		out[id] = vec
	}
	return out, nil
}

// Close releases resources. State is already on disk after every
// mutation, so there is nothing to flush.
func (idx *Index) Close() error {
	return nil
}

// normalize returns the unit-length copy of vec.
func normalize(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, domain.ErrZeroVector
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, domain.ErrZeroVector
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

// dot computes the dot product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// float32ToBytes encodes vectors as little-endian float32.
func float32ToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32 decodes little-endian float32 vectors.
func bytesToFloat32(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// writeFileAtomic writes data through a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
