package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the ingested corpus",
	Long: `Retrieves evidence for the question and composes a Markdown answer.
Every bullet in the answer carries a citation marker. If the corpus
holds no supporting evidence the command fails rather than guessing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "n", 0, "maximum number of evidence hits (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer and citations as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	answer, hits, err := answerService.Ask(cmd.Context(), args[0], askTopK)
	if err != nil {
		if errors.Is(err, domain.ErrNoEvidence) {
			return fmt.Errorf("no evidence found for %q; ingest relevant documents first", args[0])
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		citations := make([]string, len(hits))
		for i, hit := range hits {
			citations[i] = hit.Citation
		}
		data, err := json.MarshalIndent(struct {
			Answer    string   `json:"answer"`
			Citations []string `json:"citations"`
		}{answer, citations}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer)
	return nil
}
