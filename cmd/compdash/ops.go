package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"compdash/cmd/compdash/ui"
	"compdash/internal/model"
	"compdash/internal/poll"
)

var (
	logsLimit  int
	logsFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the backend execution log",
	RunE: func(cmd *cobra.Command, args []string) error {
		printLogs := func(logs []model.LogEntry) {
			for _, e := range logs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s] %s\n",
					e.DisplayTime(), ui.LogTypeMark(e.Type), e.Stage, e.Message)
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		resp, err := client.Logs(ctx, logsLimit)
		cancel()
		if err != nil {
			return err
		}
		printLogs(resp.Logs)
		if !logsFollow {
			return nil
		}

		// Follow mode re-fetches on the metrics cadence and prints only
		// entries beyond what was already shown.
		seen := len(resp.Logs)
		runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runner := poll.Runner{
			Resource: poll.ResourceLogs,
			Interval: cfg.MetricsInterval(),
			Fetch: func(ctx context.Context) error {
				resp, err := client.Logs(ctx, logsLimit)
				if err != nil {
					return err
				}
				if len(resp.Logs) > seen {
					printLogs(resp.Logs[seen:])
					seen = len(resp.Logs)
				}
				return nil
			},
		}
		runner.Run(runCtx)
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		resp, err := client.Notifications(ctx)
		if err != nil {
			return err
		}
		if len(resp.Notifications) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty.")
			return nil
		}
		for _, n := range resp.Notifications {
			read := " "
			if !n.Read {
				read = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s: %s\n",
				read, ui.NotificationMark(n.Severity), n.Title, n.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", resp.UnreadCount)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("backend offline at %s: %w", client.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backend online at %s\n", client.BaseURL())
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVar(&logsLimit, "limit", 50, "maximum entries")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "poll for new entries")
}
