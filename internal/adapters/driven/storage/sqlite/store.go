package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.veridoc/data/veridoc.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".veridoc", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "veridoc.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// InsertDocumentBundle stores a document with its sections and chunks
// in a single transaction.
func (s *Store) InsertDocumentBundle(ctx context.Context, doc *domain.Document, sections []domain.Section, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" || doc.ContentHash == "" {
		return fmt.Errorf("%w: document id and content hash are required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, content_hash, title, uri, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.ContentHash, doc.Title, doc.URI, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	sectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (id, document_id, title, level, start_page, end_page)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing section statement: %w", err)
	}
	defer sectionStmt.Close()

	for _, section := range sections {
		if _, err := sectionStmt.ExecContext(ctx, section.ID, section.DocumentID,
			section.Title, section.Level, section.StartPage, section.EndPage); err != nil {
			return fmt.Errorf("inserting section %s: %w", section.ID, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, section_id, content, token_count,
			char_start, char_end, start_page, end_page, start_line, end_line,
			embedding, lexical)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk statement: %w", err)
	}
	defer chunkStmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)
		if _, err := chunkStmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.SectionID,
			chunk.Content, chunk.TokenCount, chunk.CharStart, chunk.CharEnd,
			chunk.StartPage, chunk.EndPage, chunk.StartLine, chunk.EndLine,
			embeddingBlob, chunk.Lexical); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, title, uri, created_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetDocumentByHash retrieves a document by content hash.
func (s *Store) GetDocumentByHash(ctx context.Context, contentHash string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, title, uri, created_at
		FROM documents WHERE content_hash = ?
	`, contentHash)

	return scanDocument(row)
}

// ListDocuments returns all documents ordered by creation time.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_hash, title, uri, created_at
		FROM documents ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.ContentHash, &doc.Title, &doc.URI, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *Store) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, section_id, content, token_count,
			char_start, char_end, start_page, end_page, start_line, end_line,
			embedding, lexical
		FROM chunks WHERE id = ?
	`, id)

	var chunk domain.Chunk
	var embeddingBlob []byte
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SectionID, &chunk.Content,
		&chunk.TokenCount, &chunk.CharStart, &chunk.CharEnd, &chunk.StartPage,
		&chunk.EndPage, &chunk.StartLine, &chunk.EndLine, &embeddingBlob, &chunk.Lexical); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &chunk, nil
}

// FetchChunks retrieves chunks ordered by character offset. An empty
// documentID fetches chunks for all documents.
func (s *Store) FetchChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	query := `
		SELECT id, document_id, section_id, content, token_count,
			char_start, char_end, start_page, end_page, start_line, end_line,
			embedding, lexical
		FROM chunks
	`
	var args []any
	if documentID != "" {
		query += " WHERE document_id = ?"
		args = append(args, documentID)
	}
	query += " ORDER BY document_id, char_start"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SectionID, &chunk.Content,
			&chunk.TokenCount, &chunk.CharStart, &chunk.CharEnd, &chunk.StartPage,
			&chunk.EndPage, &chunk.StartLine, &chunk.EndLine, &embeddingBlob, &chunk.Lexical); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// DeleteDocumentByHash removes a document and its sections and chunks.
// Deleting an unknown hash is not an error.
func (s *Store) DeleteDocumentByHash(ctx context.Context, contentHash string) error {
	// ON DELETE CASCADE removes sections and chunks with the document.
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE content_hash = ?", contentHash)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// CountChunks reports the number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// GetSections retrieves the section layout for a document ordered by
// starting page.
func (s *Store) GetSections(ctx context.Context, documentID string) ([]domain.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, title, level, start_page, end_page
		FROM sections WHERE document_id = ?
		ORDER BY start_page, id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section //nolint:prealloc // size unknown from query
	for rows.Next() {
		var section domain.Section
		if err := rows.Scan(&section.ID, &section.DocumentID, &section.Title,
			&section.Level, &section.StartPage, &section.EndPage); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}

	return sections, nil
}

// ==================== Helper Functions ====================

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.ContentHash, &doc.Title, &doc.URI, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
