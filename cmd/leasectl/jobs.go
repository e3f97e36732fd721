package main

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate-invoices",
	Short: "Invoice every due, unclaimed schedule row once",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := loadApp()
		if err != nil {
			return err
		}
		defer cleanup()

		result, runErr := application.Reconciler.GenerateDueInvoices(cmd.Context())
		if err := printJSON(cmd, result); err != nil {
			return err
		}
		return runErr
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync-status",
	Short: "Copy invoice statuses onto their schedule rows once",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := loadApp()
		if err != nil {
			return err
		}
		defer cleanup()

		result, runErr := application.Reconciler.SyncScheduleStatus(cmd.Context())
		if err := printJSON(cmd, result); err != nil {
			return err
		}
		return runErr
	},
}

var overdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Flag late open invoices as Overdue",
	Example: `  # Mark overdue invoices and carry the status onto schedule rows
  leasectl mark-overdue

  # Only touch invoices
  leasectl mark-overdue --sync=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		withSync, _ := cmd.Flags().GetBool("sync")

		application, cleanup, err := loadApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if !withSync {
			marked, err := application.Reconciler.MarkOverdue(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int64{"marked_overdue": marked})
		}

		outcome, runErr := application.MarkOverdueThenSync(cmd.Context())
		if outcome != nil {
			if err := printJSON(cmd, outcome); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(generateCmd, syncCmd, overdueCmd)

	overdueCmd.Flags().Bool("sync", true, "Run the schedule status sync afterwards")
}
