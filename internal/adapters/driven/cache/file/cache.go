// Package file provides a directory-backed content-addressed cache.
//
// Entries are keyed by a stable hash of their semantic inputs and are
// immutable once written: a key maps to the same payload forever or is
// absent. The cache makes re-ingestion of identical content cheap -
// segment layouts and embeddings are replayed from disk with zero
// external calls.
package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure ContentCache implements the interface.
var _ driven.ContentCache = (*ContentCache)(nil)

// keySeparator joins key parts before hashing. A unit-separator byte is
// not expected in any input.
const keySeparator = "\x1f"

// Key derives the stable, order-sensitive cache key from the given
// UTF-8 parts: the hex-encoded SHA-256 of the parts joined with a
// fixed separator byte.
func Key(parts ...string) string {
	h := sha256.New()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte(keySeparator))
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ContentCache stores payloads as files under baseDir/namespace.
type ContentCache struct {
	baseDir string
}

// NewContentCache creates a cache rooted at baseDir, creating the
// directory when needed.
func NewContentCache(baseDir string) (*ContentCache, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("cache: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &ContentCache{baseDir: baseDir}, nil
}

// entryPath hashes the key once more for the filename, so arbitrary key
// strings (including pre-hashed ones) are always filesystem-safe.
func (c *ContentCache) entryPath(namespace, key string) string {
	digest := sha256.Sum256([]byte(key))
	return filepath.Join(c.baseDir, namespace, hex.EncodeToString(digest[:])+".json")
}

// Get returns the payload for the key, or ok=false if absent.
func (c *ContentCache) Get(namespace, key string) ([]byte, bool, error) {
	payload, err := os.ReadFile(c.entryPath(namespace, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return payload, true, nil
}

// Set stores the payload under the key. The write goes through a
// temporary file and rename so readers never observe a partial entry.
func (c *ContentCache) Set(namespace, key string, payload []byte) error {
	path := c.entryPath(namespace, key)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating namespace directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp entry: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing cache entry: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached payload, or invokes factory once,
// stores the result, and returns it.
func (c *ContentCache) GetOrCompute(namespace, key string, factory func() ([]byte, error)) ([]byte, error) {
	payload, ok, err := c.Get(namespace, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return payload, nil
	}

	payload, err = factory()
	if err != nil {
		return nil, err
	}
	if err := c.Set(namespace, key, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Purge removes all entries in a namespace.
func (c *ContentCache) Purge(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("cache: namespace is required")
	}
	if err := os.RemoveAll(filepath.Join(c.baseDir, namespace)); err != nil {
		return fmt.Errorf("purging namespace: %w", err)
	}
	return nil
}
