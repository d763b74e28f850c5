package driven

// ContentCache is a content-addressed key/value store for derived
// artifacts (segment layouts, embeddings). Entries are immutable once
// written: a key always maps to the same payload or is absent.
//
// Keys are derived from semantic inputs (model id, content hash), never
// from object identity, so identical inputs always hit the same entry.
type ContentCache interface {
	// Get returns the payload for the key, or ok=false if absent.
	Get(namespace, key string) (payload []byte, ok bool, err error)

	// Set stores the payload under the key.
	Set(namespace, key string, payload []byte) error

	// GetOrCompute returns the cached payload, or invokes factory once,
	// stores the result, and returns it.
	GetOrCompute(namespace, key string, factory func() ([]byte, error)) ([]byte, error)

	// Purge removes all entries in a namespace. Out-of-band maintenance
	// only; entries are never partially overwritten.
	Purge(namespace string) error
}
