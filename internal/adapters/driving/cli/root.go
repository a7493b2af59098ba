// Package cli implements the docuchat command line interface.
// Commands are thin wrappers over the driving ports; all domain logic
// lives in the core services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	dataDir   string
	configDir string
)

// Service implementations, wired by SetServices before any command runs.
var (
	ingestService   driving.Ingester
	chatService     driving.Chatter
	searchService   driving.Searcher
	documentService driving.DocumentManager
	settingsService driving.SettingsManager

	// supportedExtensions lists the file extensions the ingester
	// accepts, used by add and watch for input filtering.
	supportedExtensions []string
)

// buildServices constructs the service set once global flags are
// parsed. Set by SetServiceBuilder from main; nil in tests, which wire
// fakes through SetServices instead.
var buildServices ServiceBuilder

// closeServices releases service resources after the command finishes.
var closeServices func() error

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Chat with your documents locally",
	Long: `DocuChat ingests local documents, indexes them with embeddings and
answers questions about their content with cited sources.

All data stays on your machine: documents and embeddings live in a
local SQLite database, and with the default Ollama provider nothing
ever leaves localhost.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		if buildServices == nil {
			return nil
		}
		services, closer, err := buildServices(dataDir, configDir)
		if err != nil {
			return fmt.Errorf("initialising services: %w", err)
		}
		SetServices(services)
		closeServices = closer
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.docuchat/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docuchat)")
}

// Services bundles the driving ports the command tree depends on.
type Services struct {
	Ingest    driving.Ingester
	Chat      driving.Chatter
	Search    driving.Searcher
	Documents driving.DocumentManager
	Settings  driving.SettingsManager

	// SupportedExtensions are the ingestable file extensions,
	// lower-case, without the leading dot.
	SupportedExtensions []string
}

// ServiceBuilder constructs the service set for the parsed global
// flags, returning a cleanup function for held resources.
type ServiceBuilder func(dataDir, configDir string) (Services, func() error, error)

// SetServiceBuilder defers service construction until flags are
// parsed. Called by main before Execute.
func SetServiceBuilder(b ServiceBuilder) {
	buildServices = b
}

// SetServices wires the command tree to its service implementations.
func SetServices(s Services) {
	ingestService = s.Ingest
	chatService = s.Chat
	searchService = s.Search
	documentService = s.Documents
	settingsService = s.Settings
	supportedExtensions = s.SupportedExtensions
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if closeServices != nil {
		if closeErr := closeServices(); closeErr != nil {
			logger.Warn("Cleanup failed: %v", closeErr)
		}
	}
	return err
}
