package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexStats_EmptyCorpus(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "index", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:  0")
	assert.Contains(t, out, "Chunks:     0")
	assert.Contains(t, out, "Vectors:    0")
	assert.Contains(t, out, "offline-hash")
}

func TestIndexStats_CountsMatchAfterIngest(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeTestDocument(t, testCorpus)
	_, err := execute(t, "ingest", path)
	require.NoError(t, err)

	out, err := execute(t, "index", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:  1")
	assert.NotContains(t, out, "counts differ")
}

func TestRunIndexStats_Unconfigured(t *testing.T) {
	err := runIndexStats(indexStatsCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
