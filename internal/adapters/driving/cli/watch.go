package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docuchat/internal/core/domain"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new files automatically",
	Long: `Monitors the given directory and ingests any new or changed file with
a supported extension. Runs until interrupted with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a changed file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	w, err := watcher.New(ingestService, args[0], supportedExtensions,
		watcher.WithDebounce(watchDebounce),
		watcher.WithResultFunc(func(path string, doc *domain.Document, err error) {
			if err != nil {
				cmd.Printf("FAIL %s: %v\n", path, err)
				return
			}
			cmd.Printf("Added %s (%d bytes)\n", doc.Name, doc.SizeBytes)
		}))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for new documents. Press Ctrl-C to stop.\n", w.Dir())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("\nStopped watching.")
	return nil
}
