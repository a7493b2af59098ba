package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
)

var (
	askTopK      int
	askDocuments []string
	askNoSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant passages from the indexed documents and
generates an answer grounded in them. Every answer lists the sources
it was built from.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "maximum number of source passages")
	askCmd.Flags().StringSliceVarP(&askDocuments, "documents", "d", nil, "restrict retrieval to the given document IDs")
	askCmd.Flags().BoolVar(&askNoSources, "no-sources", false, "suppress the source listing")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()
	opts := driving.AskOptions{
		TopK:        askTopK,
		DocumentIDs: askDocuments,
	}

	answer, err := chatService.Ask(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Message.Content)

	if !askNoSources && len(answer.Message.Sources) > 0 {
		cmd.Println()
		printSources(cmd, answer.Message.Sources)
		cmd.Printf("\nConfidence: %.0f%%\n", answer.Confidence*100)
	}

	return nil
}

func printSources(cmd *cobra.Command, sources []domain.DocumentSource) {
	cmd.Println("Sources:")
	for i, src := range sources {
		location := src.DocumentName
		if src.Page != nil {
			location = fmt.Sprintf("%s, page %d", src.DocumentName, *src.Page)
		}
		cmd.Printf("  [%d] %s (%.0f%% relevant)\n", i+1, location, src.Relevance*100)
	}
}
