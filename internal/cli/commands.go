package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recent calculations kept by the chart service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := root.client().History(cmd.Context())
			if err != nil {
				root.logger(cmd).Warn("history request failed", "error", err)
				return errors.New("could not load history")
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(entries))
			return nil
		},
	}
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the chart service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := root.client()
			if err := client.Ping(cmd.Context()); err != nil {
				root.logger(cmd).Warn("ping failed", "backend", client.BaseURL(), "error", err)
				return fmt.Errorf("chart service at %s is unreachable", client.BaseURL())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart service at %s is reachable\n", client.BaseURL())
			return nil
		},
	}
}
