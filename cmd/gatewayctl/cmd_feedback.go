package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"query-gateway/internal/app"
	"query-gateway/internal/querycache"
)

func newSignatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signature <query>",
		Short: "Print the cache signature of a SQL query",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), querycache.Signature(strings.Join(args, " ")))
		},
	}
}

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <query>",
		Short: "Show the success and failure counts recorded for a query",
		Long: `Feedback looks up the reliability ledger row of a SQL query.

Pass the query text, or its signature with --signature.

Examples:
  gatewayctl feedback "SELECT COUNT(*) FROM customers"
  gatewayctl feedback --signature 3f1c...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			bySignature, _ := cmd.Flags().GetBool("signature")

			sig := strings.Join(args, " ")
			if !bySignature {
				sig = querycache.Signature(sig)
			}

			ctx := cmd.Context()
			store, closeFn, err := app.OpenCache(ctx, cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			defer closeFn()

			rec, found, err := store.Feedback(ctx, sig)
			if err != nil {
				return fmt.Errorf("failed to read feedback: %w", err)
			}
			if !found {
				return fmt.Errorf("no feedback recorded for signature %s", sig)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
	cmd.Flags().Bool("signature", false, "Treat the argument as a signature instead of query text")
	return cmd
}
