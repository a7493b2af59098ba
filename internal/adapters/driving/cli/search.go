package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

var (
	searchTopK      int
	searchThreshold float64
	searchDocuments []string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks all indexed chunks against the query by embedding similarity
and prints the best matches. Useful for inspecting what 'ask' would
retrieve without invoking the LLM.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "minimum similarity score")
	searchCmd.Flags().StringSliceVarP(&searchDocuments, "documents", "d", nil, "restrict search to the given document IDs")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	opts := domain.SearchOptions{
		TopK:        searchTopK,
		Threshold:   searchThreshold,
		DocumentIDs: searchDocuments,
	}

	result, err := searchService.Search(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, result)
}

func outputSearchTable(cmd *cobra.Command, result *domain.SearchResult) error {
	if result.TotalResults == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("%d results (max %.2f, avg %.2f):\n\n",
		result.TotalResults, result.MaxRelevance, result.AverageRelevance)

	for i, scored := range result.Results {
		location := scored.Chunk.DocumentID
		if scored.Chunk.Page != nil {
			location = fmt.Sprintf("%s, page %d", location, *scored.Chunk.Page)
		}
		cmd.Printf("  [%d] %.2f  %s\n", i+1, scored.Score, location)
		cmd.Printf("      %s\n\n", excerpt(scored.Chunk.Content, 120))
	}

	return nil
}

// excerpt returns the first maxLen characters of s on a single line.
func excerpt(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
