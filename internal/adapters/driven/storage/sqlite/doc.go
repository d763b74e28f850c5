// Package sqlite provides the SQLite-backed document store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Documents, their section
// layouts, and their chunks live in one database file; chunk embeddings are
// stored inline as little-endian float32 blobs so a rebuild of the vector
// index never re-runs the embedding provider.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.veridoc/data/veridoc.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
