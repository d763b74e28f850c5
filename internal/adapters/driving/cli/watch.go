package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// watchDebounce coalesces bursts of writes to the same file.
const watchDebounce = 500 * time.Millisecond

// watchExtensions are the file types picked up by the watcher.
var watchExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".pdf":      true,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new or changed documents",
	Long: `Watches the directory for created or modified documents and ingests
them automatically. Unchanged files are skipped via content hashing,
so editor save bursts and touch events are cheap. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := args[0]
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s\n", dir)

	var (
		mu     sync.Mutex
		timers = map[string]*time.Timer{}
	)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !watchExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			path := event.Name
			mu.Lock()
			if timer, exists := timers[path]; exists {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				ingestWatched(ctx, cmd, path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestWatched ingests one file picked up by the watcher. Errors are
// reported and swallowed so a bad file does not stop the watch.
func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) {
	result, err := ingestService.Ingest(ctx, path, "")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: ingesting %s: %v\n", path, err)
		return
	}
	cmd.Printf("Ingested %s (%d chunks)\n", path, result.ChunkCount)
}
