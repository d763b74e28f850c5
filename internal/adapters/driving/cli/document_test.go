package cli

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, 3)
	for _, sub := range documentCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "delete")
}

func TestDocumentList_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocumentList_ShowsIngested(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeTestDocument(t, testCorpus)
	_, err := execute(t, "ingest", path)
	require.NoError(t, err)

	out, err := execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1 documents")
	assert.Contains(t, out, "Hash:")
}

func TestDocumentGet_ShowsMetadata(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeTestDocument(t, testCorpus)
	out, err := execute(t, "ingest", path)
	require.NoError(t, err)

	docID := regexp.MustCompile(`Document: (\S+)`).FindStringSubmatch(out)[1]

	out, err = execute(t, "document", "get", docID)
	require.NoError(t, err)
	assert.Contains(t, out, "Title:")
	assert.Contains(t, out, "Created:")
}

func TestDocumentGet_UnknownID(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "document", "get", "no-such-id")
	require.Error(t, err)
}

func TestDocumentDelete_RemovesDocument(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeTestDocument(t, testCorpus)
	out, err := execute(t, "ingest", path)
	require.NoError(t, err)

	hash := regexp.MustCompile(`Hash:\s+(\S+)`).FindStringSubmatch(out)[1]

	out, err = execute(t, "document", "delete", hash)
	require.NoError(t, err)
	assert.Contains(t, out, "removed from the corpus")

	out, err = execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocumentDelete_UnknownHashIsNoop(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "document", "delete", "deadbeef")
	require.NoError(t, err)
}
