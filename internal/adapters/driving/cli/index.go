package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the local corpus index",
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and index statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

func init() {
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if docStore == nil || vectorIndex == nil {
		return errors.New("index not configured")
	}

	ctx := context.Background()

	docs, err := docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	chunks, err := docStore.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}
	vectors, err := vectorIndex.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting vectors: %w", err)
	}

	cmd.Println("Corpus statistics:")
	cmd.Println()
	cmd.Printf("  Documents:  %d\n", len(docs))
	cmd.Printf("  Chunks:     %d\n", chunks)
	cmd.Printf("  Vectors:    %d\n", vectors)
	if embedder != nil {
		cmd.Printf("  Model:      %s (%d dimensions)\n", embedder.ModelName(), embedder.Dimensions())
	}

	if chunks != vectors {
		cmd.Println()
		cmd.Printf("Warning: chunk and vector counts differ; re-ingest affected documents.\n")
	}
	return nil
}
