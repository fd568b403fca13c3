// Command gatewayctl asks questions and inspects the query ledger from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"query-gateway/config"
	"query-gateway/pkg/log"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gatewayctl",
		Short: "Query gateway command line client",
		Long: `gatewayctl runs the query gateway in-process.

It answers natural-language questions against the configured database,
printing every status event as one JSON line, and inspects the
reliability ledger kept for executed queries.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: search ./config, ., /etc/app/)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Write gateway logs to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAskCmd(),
		newFeedbackCmd(),
		newSignatureCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gatewayctl version %s\n", version)
		},
	}
}

// loadConfig honours --config and falls back to the default search paths.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// newLogger keeps stdout clean for JSON output unless --verbose is set.
func newLogger(cmd *cobra.Command, cfg *config.Config) log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return log.NewNop()
	}
	return log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: false,
		FilePath:     cfg.Logger.FilePath,
	})
}
