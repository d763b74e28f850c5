package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cachefile "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/cache/file"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/offline"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/extraction"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/vectorindex/matrix"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
	"github.com/veridoc-labs/veridoc-cli/internal/lexical"
	"github.com/veridoc-labs/veridoc-cli/internal/segment"
)

// setupTestServices wires the commands to in-process adapters and
// returns a cleanup that restores the unwired state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	store := memory.NewDocumentStore()
	index, err := matrix.New(t.TempDir())
	require.NoError(t, err)

	embedding, err := offline.NewEmbeddingService(64)
	require.NoError(t, err)

	cache, err := cachefile.NewContentCache(t.TempDir())
	require.NoError(t, err)

	segmenter, err := segment.New(40, 0.1)
	require.NoError(t, err)
	normalizer := lexical.New(64)

	research := services.NewResearchService(store, index, embedding, normalizer, 6)

	ingestService = services.NewIngestService(store, index, embedding, cache, segmenter, normalizer, extraction.ForPath)
	researchService = research
	answerService = services.NewAnswerService(research)
	documentService = services.NewDocumentService(store, index)
	docStore = store
	vectorIndex = index
	embedder = embedding

	return func() {
		ingestService = nil
		researchService = nil
		answerService = nil
		documentService = nil
		docStore = nil
		vectorIndex = nil
		embedder = nil
		_ = index.Close()
	}
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestDocument creates a small text file for ingestion tests.
func writeTestDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testCorpus = "The observatory logged a meteor shower on Tuesday night. " +
	"Cloud cover prevented observations on Wednesday. " +
	"Thursday's session recorded twelve new satellite passes."
