package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Retrieve cited evidence for a question",
	Long: `Performs hybrid retrieval over the ingested corpus: semantic vector
similarity blended with lexical term overlap. Each hit carries a
citation marker locating it in its source document.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "maximum number of hits (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output hits as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if researchService == nil {
		return errors.New("research service not configured")
	}

	output, err := researchService.Search(cmd.Context(), args[0], searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, output)
	}
	return outputSearchTable(cmd, output)
}

func outputSearchJSON(cmd *cobra.Command, output *domain.ResearchOutput) error {
	type hitJSON struct {
		DocumentID  string  `json:"document_id"`
		Citation    string  `json:"citation"`
		Score       float64 `json:"score"`
		LexicalHits int     `json:"lexical_hits"`
		Content     string  `json:"content"`
	}
	payload := struct {
		Hits      []hitJSON `json:"hits"`
		Exhausted bool      `json:"exhausted"`
	}{
		Hits:      make([]hitJSON, len(output.Hits)),
		Exhausted: output.Exhausted,
	}
	for i, hit := range output.Hits {
		payload.Hits[i] = hitJSON{
			DocumentID:  hit.Chunk.DocumentID,
			Citation:    hit.Citation,
			Score:       hit.Score,
			LexicalHits: hit.LexicalHits,
			Content:     hit.Chunk.Content,
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal hits: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, output *domain.ResearchOutput) error {
	if len(output.Hits) == 0 {
		cmd.Println("No evidence found.")
		return nil
	}

	cmd.Println("Evidence:")
	cmd.Println()
	for i, hit := range output.Hits {
		cmd.Printf("  [%d] %s (%.3f, %d terms)\n", i+1, hit.Citation, hit.Score, hit.LexicalHits)
		cmd.Printf("      %s\n", snippet(hit.Chunk.Content))
		cmd.Println()
	}
	if !output.Exhausted {
		cmd.Println("More candidates exist; raise --top-k to see them.")
	}
	return nil
}

// snippet flattens and shortens chunk content for table output.
func snippet(content string) string {
	const limit = 160
	flat := strings.Join(strings.Fields(content), " ")
	if len(flat) <= limit {
		return flat
	}
	return flat[:limit] + "..."
}
