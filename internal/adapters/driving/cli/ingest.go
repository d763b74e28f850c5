package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestTitle string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a document into the corpus",
	Long: `Extracts text from the file, segments it into chunks, embeds the
chunks, and stores everything locally. Plain text, Markdown, and PDF
files are supported. Re-ingesting an unchanged file is a cheap no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title (default: file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	result, err := ingestService.Ingest(cmd.Context(), path, ingestTitle)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s\n", path)
	cmd.Printf("  Document: %s\n", result.DocumentID)
	cmd.Printf("  Hash:     %s\n", result.ContentHash)
	cmd.Printf("  Chunks:   %d\n", result.ChunkCount)
	return nil
}
