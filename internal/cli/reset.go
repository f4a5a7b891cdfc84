package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database. The schema is kept.

Examples:
  invoicer reset invoices    # Delete all invoices and receipts
  invoicer reset all         # Wipe everything and restart numbering`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoices, line items, and receipts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmed(cmd, "This will delete ALL invoices and receipts. Numbers will not be reused. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.ResetRepo.ClearInvoices(context.Background()); err != nil {
			return fmt.Errorf("failed to reset invoices: %w", err)
		}

		appInstance.Logger.Warn("invoices reset")
		fmt.Println("All invoices and receipts have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: contractor, clients, invoices, receipts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmed(cmd, "This will delete ALL data and restart numbering at 0001. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.ResetRepo.ClearAll(context.Background()); err != nil {
			return fmt.Errorf("failed to reset data: %w", err)
		}

		appInstance.Logger.Warn("all data reset")
		fmt.Println("All data has been deleted.")
		return nil
	},
}

func confirmed(cmd *cobra.Command, message string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	return confirmPrompt(message)
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)

	resetCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
