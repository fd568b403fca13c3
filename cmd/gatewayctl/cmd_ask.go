package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"query-gateway/internal/app"
	"query-gateway/internal/gateway"
	"query-gateway/internal/model"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question and stream its status events",
		Long: `Ask resolves one natural-language question and prints every status
event as a JSON line, ending with a Final Answer or Error event.

Examples:
  gatewayctl ask "How many customers are in France?"
  gatewayctl ask --session alice "And in Germany?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			sessionID, _ := cmd.Flags().GetString("session")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, newLogger(cmd, cfg))
			if err != nil {
				return fmt.Errorf("failed to initialize gateway: %w", err)
			}
			defer a.Close()

			return streamAnswer(ctx, cmd, a.Gateway, sessionID, strings.Join(args, " "))
		},
	}
	cmd.Flags().String("session", gateway.DefaultSessionID, "Conversation session id")
	return cmd
}

// streamAnswer prints events as they arrive and reports a failed terminal
// event as the command error. The stream is drained to the end even after a
// write error so the request goroutine can always finish.
func streamAnswer(ctx context.Context, cmd *cobra.Command, gw gateway.Gateway, sessionID, question string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	var (
		last     model.StatusEvent
		writeErr error
	)
	for ev := range gw.Ask(ctx, sessionID, question).Events() {
		last = ev
		if writeErr != nil {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			writeErr = fmt.Errorf("failed to write event: %w", err)
		}
	}
	if writeErr != nil {
		return writeErr
	}
	if last.Step == model.StepError {
		return fmt.Errorf("query failed: %v", last.Message)
	}
	return nil
}
