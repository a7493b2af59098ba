package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show chat history",
	Long:  `Prints past questions and answers in chronological order.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire chat history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of messages (0 for all)")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	messages, err := chatService.History(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No chat history. Use 'docuchat ask' to start a conversation.")
		return nil
	}

	for _, msg := range messages {
		label := "You"
		if msg.Role == domain.RoleAssistant {
			label = "DocuChat"
		}
		cmd.Printf("[%s] %s\n", msg.Timestamp.Format("2006-01-02 15:04"), label)
		cmd.Printf("%s\n", msg.Content)
		if len(msg.Sources) > 0 {
			printSources(cmd, msg.Sources)
		}
		cmd.Println()
	}

	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.ClearHistory(context.Background()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Chat history cleared.")
	return nil
}
