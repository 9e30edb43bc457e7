// Package commands defines all Cobra CLI commands for the souschef binary.
package commands

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef-go/internal/audit"
	"github.com/souschef-ai/souschef-go/internal/config"
	"github.com/souschef-ai/souschef-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "souschef",
		Short: "SousChef — recipe recommendations from your own index, powered by LLMs",
		Long: `SousChef answers natural language recipe questions, in Korean or English,
against a curated recipe index. Retrieval finds candidate recipes, an LLM
selects the best honest match, and the answer comes back as a formatted
recipe card in the language of the question.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.souschef/config.yaml).
See 'souschef --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env before anything reads the environment. A missing
			// file is the normal case outside development.
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.souschef/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewServeCmd(),
		NewIngestCmd(),
		NewVersionCmd(),
	)

	return root
}
