/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/shopsmart/apiserver/config"
	"github.com/shopsmart/apiserver/internal/events"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Starts the account events worker",
	Long: `Starts the worker that consumes account events from the
configured message broker and dispatches the corresponding emails.
Usage:

	shopsmart worker
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()
		if cfg.MQ.Backend == "" {
			fmt.Fprintln(os.Stderr, "MQ_BACKEND is required for the worker")
			os.Exit(1)
		}

		publisher, err := events.Open(cmd.Context(), cfg.MQ)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open broker: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = publisher.Close()
		}()

		if err := publisher.Subscribe(cmd.Context(), handleAccountEvent); err != nil {
			fmt.Fprintf(os.Stderr, "worker error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// handleAccountEvent dispatches one account event. Email delivery is a
// placeholder for now; the event is logged with enough detail to wire a
// real mail provider in later.
func handleAccountEvent(ctx context.Context, msg events.Message) error {
	var event events.AccountEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// Malformed payloads will never parse; drop instead of requeue.
		log.Printf("worker: drop malformed event %s: %v", msg.ID, err)
		return nil
	}

	switch event.Type {
	case events.TypeUserRegistered:
		log.Printf("worker: send verification email to %s (user %d)", event.Email, event.UserID)
	case events.TypeUserLoggedIn:
		log.Printf("worker: login notification for %s (user %d)", event.Email, event.UserID)
	default:
		log.Printf("worker: drop unknown event type %q", event.Type)
	}
	return nil
}
