package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
)

var addCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Ingest documents",
	Long: `Reads the given files, extracts their text, chunks and embeds it and
stores the result in the local index. Supported formats depend on the
registered extractors; run with --verbose to see details.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	files, err := readInputFiles(args)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if len(files) == 1 {
		return addSingle(ctx, cmd, files[0])
	}
	return addBatch(ctx, cmd, files)
}

// readInputFiles loads each path into memory, failing fast on the
// first unreadable file so a typo does not half-ingest a batch.
func readInputFiles(paths []string) ([]driven.RawFile, error) {
	files := make([]driven.RawFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, driven.RawFile{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return files, nil
}

func addSingle(ctx context.Context, cmd *cobra.Command, file driven.RawFile) error {
	doc, err := ingestService.Ingest(ctx, file, progressPrinter(cmd))
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", file.Name, err)
	}

	cmd.Printf("Added %s (%s, %d bytes)\n", doc.Name, doc.Type, doc.SizeBytes)
	return nil
}

func addBatch(ctx context.Context, cmd *cobra.Command, files []driven.RawFile) error {
	cmd.Printf("Ingesting %d files...\n\n", len(files))

	results := ingestService.IngestAll(ctx, files, nil)

	failures := 0
	for _, item := range results {
		if item.Err != nil {
			failures++
			cmd.Printf("  FAIL %s: %v\n", item.FileName, item.Err)
			continue
		}
		cmd.Printf("  ok   %s (%d bytes)\n", item.FileName, item.Document.SizeBytes)
	}

	cmd.Printf("\n%d of %d files ingested.\n", len(results)-failures, len(results))
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}

// progressPrinter renders ingestion progress as a single updating line.
func progressPrinter(cmd *cobra.Command) driving.ProgressFunc {
	return func(p domain.IngestProgress) {
		if p.Stage == domain.StageError {
			cmd.Printf("\r%-60s\n", fmt.Sprintf("Error: %v", p.Err))
			return
		}
		line := fmt.Sprintf("[%3d%%] %s", p.Percent, p.Message)
		cmd.Printf("\r%-60s", line)
		if p.Stage.Terminal() {
			cmd.Println()
		}
	}
}
