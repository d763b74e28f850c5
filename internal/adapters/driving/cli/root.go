// Package cli implements the veridoc command line interface.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/ai"
	cachefile "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/cache/file"
	configfile "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/config/file"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/extraction"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
	"github.com/veridoc-labs/veridoc-cli/internal/lexical"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
	"github.com/veridoc-labs/veridoc-cli/internal/segment"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Wired by initRuntime, or set directly
// by tests.
var (
	ingestService   driving.IngestService
	researchService driving.ResearchService
	answerService   driving.AnswerService
	documentService driving.DocumentService
)

// Driven ports exposed for introspection commands.
var (
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
)

var (
	verboseFlag bool
	configDir   string
)

// runtimeClosers holds cleanup functions registered during wiring.
var runtimeClosers []func()

var rootCmd = &cobra.Command{
	Use:   "veridoc",
	Short: "Cited question answering over your own documents",
	Long: `Veridoc ingests local documents and answers questions about them.
Every answer bullet carries a citation marker pointing back to the
exact document, section, pages, and lines the statement came from.
Answers that cannot be fully cited are refused, never approximated.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if !commandNeedsRuntime(cmd) || servicesReady() {
			return nil
		}
		return initRuntime(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.veridoc)")
}

// Execute runs the root command and releases the wired runtime.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

// commandNeedsRuntime reports whether cmd touches the corpus at all.
func commandNeedsRuntime(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return true
}

// servicesReady reports whether the service vars are already wired.
func servicesReady() bool {
	return ingestService != nil && researchService != nil &&
		answerService != nil && documentService != nil
}

// initRuntime loads settings and wires the full adapter stack behind
// the package-level service vars.
func initRuntime(cmd *cobra.Command) error {
	settingsStore, err := configfile.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}
	logger.Debug("Config: %s", settingsStore.Path())
	logger.Debug("Data directory: %s", settings.DataDir)

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	runtimeClosers = append(runtimeClosers, func() { _ = store.Close() })

	cache, err := cachefile.NewContentCache(filepath.Join(settings.DataDir, "cache"))
	if err != nil {
		return fmt.Errorf("opening content cache: %w", err)
	}

	aiResult, err := ai.InitServices(cmd.Context(), settings, cache)
	if err != nil {
		return err
	}
	runtimeClosers = append(runtimeClosers, aiResult.Close)
	for _, warning := range aiResult.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	segmenter, err := segment.New(settings.Segment.TargetTokens, settings.Segment.OverlapRatio)
	if err != nil {
		return err
	}
	normalizer := lexical.New(1024)

	docStore = store
	vectorIndex = aiResult.VectorIndex
	embedder = aiResult.EmbeddingService

	ingestService = services.NewIngestService(
		store, aiResult.VectorIndex, aiResult.EmbeddingService, cache,
		segmenter, normalizer, extraction.ForPath,
	)
	research := services.NewResearchService(
		store, aiResult.VectorIndex, aiResult.EmbeddingService,
		normalizer, settings.Retrieval.TopK,
	)
	researchService = research
	answerService = services.NewAnswerService(research)
	documentService = services.NewDocumentService(store, aiResult.VectorIndex)

	return nil
}

// shutdown releases everything initRuntime opened, in reverse order.
func shutdown() {
	for i := len(runtimeClosers) - 1; i >= 0; i-- {
		runtimeClosers[i]()
	}
	runtimeClosers = nil
}
