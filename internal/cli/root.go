// Package cli provides the command-line interface for dataset-fetch.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rescale/dataset-fetch/internal/config"
	"github.com/rescale/dataset-fetch/internal/constants"
	"github.com/rescale/dataset-fetch/internal/logging"
	"github.com/rescale/dataset-fetch/internal/version"
)

var (
	// Resolved settings, filled in by PersistentPreRunE
	cfg *config.Config

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Fetch the chest X-ray dataset archives concurrently",
		Long: `dataset-fetch ` + version.Version + ` - Built: ` + version.BuildTime + `
Downloads a fixed set of dataset archives, one worker per dataset, and waits
for all of them before reporting.

Variants:
  kaggle   Delegate each dataset to the kaggle CLI (needs ~/.kaggle/kaggle.json)
  direct   Stream each archive over HTTPS, S3 or Azure Blob with live progress

Settings can also be given as DATASET_FETCH_* environment variables
(e.g. DATASET_FETCH_MAX_PARALLEL=2) or in a --config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadEnvFile(v.GetString(config.KeyEnvFile)); err != nil {
				return err
			}

			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			cfg = loaded

			// Initialize logger
			logger = logging.NewDefaultCLILogger()
			if cfg.Verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
	}

	if err := config.BindFlags(rootCmd.PersistentFlags(), v); err != nil {
		// Flag names are static; a bind failure is a programming error
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	rootCmd.AddCommand(newCompletionCmd(rootCmd))

	// Disable default completion command (we're adding our own above)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Enable tab-completion for dataset-fetch commands",
		Long: `Generate shell completion scripts to enable tab-completion for dataset-fetch.

QUICK START:

  zsh:
    mkdir -p ~/.zsh/completions
    dataset-fetch completion zsh > ~/.zsh/completions/_dataset-fetch
    # Then add to ~/.zshrc: fpath=(~/.zsh/completions $fpath)

  Linux with bash:
    dataset-fetch completion bash | sudo tee /etc/bash_completion.d/dataset-fetch

For detailed instructions, use: dataset-fetch completion [shell] --help`,
	}

	completionCmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate the autocompletion script for bash.

QUICK TEST (temporary, current session only):
  source <(dataset-fetch completion bash)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	})

	completionCmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Generate zsh completion script",
		Long: `Generate the autocompletion script for zsh.

QUICK TEST (temporary, current session only):
  source <(dataset-fetch completion zsh)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.Root().GenZshCompletion(cmd.OutOrStdout())
		},
	})

	completionCmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate the autocompletion script for fish.

  dataset-fetch completion fish > ~/.config/fish/completions/dataset-fetch.fish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})

	completionCmd.AddCommand(&cobra.Command{
		Use:   "powershell",
		Short: "Generate PowerShell completion script",
		Long: `Generate the autocompletion script for PowerShell.

  dataset-fetch completion powershell >> $PROFILE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.Root().GenPowerShellCompletion(cmd.OutOrStdout())
		},
	})

	return completionCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\n\nReceived signal %v, cancelling downloads...\n", sig)
				fmt.Fprintf(os.Stderr, "   Partial files are left in place.\n\n")
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newKaggleCmd())
	rootCmd.AddCommand(newDirectCmd())
	rootCmd.AddCommand(newListCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		// Fallback to background context if called before Execute()
		return context.Background()
	}
	return rootContext
}

// GetConfig returns the resolved configuration, or defaults before it is loaded.
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}
