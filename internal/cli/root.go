// Package cli provides the legalctl maintenance commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iyunix/go-legalist/internal/app"
	"github.com/iyunix/go-legalist/internal/config"
	"github.com/iyunix/go-legalist/internal/logging"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	verbose bool

	cfg         *config.Config
	application *app.Application
)

var rootCmd = &cobra.Command{
	Use:   "legalctl",
	Short: "Maintenance commands for the Legal AI Assistant",
	Long: `legalctl runs administrative tasks against the Legal AI Assistant
database and model endpoint, using the same environment as the server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		base := zap.NewNop()
		if verbose {
			if base, err = logging.NewZap(cfg.Environment, "debug"); err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
		}

		application, err = app.New(cfg, base, app.Options{})
		if err != nil {
			return fmt.Errorf("initialize application: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			if err := application.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close resources: %v\n", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(llmCheckCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
