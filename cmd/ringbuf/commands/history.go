package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved workload reports",
	Long: `Browse workload reports saved with 'ringbuf run --save'.

Reports are stored in ~/.giztoy/ringbuf/data/history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return fmt.Errorf("failed to read 'limit' flag: %w", err)
		}

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		reports, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return outputResult(reports)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(report)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Report %s deleted", args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "maximum number of reports (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
