package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "List, show, and export receipts",
}

var receiptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List receipts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		receipts, err := appInstance.ReceiptService.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list receipts: %w", err)
		}

		if len(receipts) == 0 {
			fmt.Println("No receipts found")
			return nil
		}

		fmt.Printf("%-10s %-10s %-20s %-28s %12s %-12s\n",
			"Number", "Invoice", "Client", "Services", "Paid", "Date")
		fmt.Println(strings.Repeat("-", 97))

		for _, r := range receipts {
			fmt.Printf("%-10s %-10s %-20s %-28s %12s %-12s\n",
				r.ReceiptNumber,
				r.InvoiceNumber,
				truncate(r.ClientName, 20),
				truncate(r.Services, 28),
				money(r.PaidAmount),
				r.PaymentDate.Local().Format("2006-01-02"),
			)
		}

		fmt.Printf("\nTotal: %d receipt(s)\n", len(receipts))
		return nil
	},
}

var receiptsShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show receipt details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := appInstance.DocumentService.ReceiptSnapshot(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get receipt: %w", err)
		}

		date := snap.PaymentDate.Format("2006-01-02 15:04")
		if snap.LeaveDateBlank {
			date += " (printed blank)"
		}

		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("Receipt: %s\n", snap.ReceiptNumber)
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("Invoice: %s\n", snap.InvoiceNumber)
		fmt.Printf("From:    %s\n", snap.From.Name)
		fmt.Printf("To:      %s\n", snap.To.Name)
		fmt.Printf("Paid:    %s\n", date)
		fmt.Printf("Items:   %d\n", len(snap.LineItems))
		fmt.Printf("Amount:  %s\n", money(snap.PaidAmount))
		fmt.Println(strings.Repeat("=", 60))
		return nil
	},
}

var receiptsPDFCmd = &cobra.Command{
	Use:   "pdf [number]",
	Short: "Export a receipt as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		path, err := appInstance.DocumentService.ExportReceipt(context.Background(), args[0], dir)
		if err != nil {
			return fmt.Errorf("failed to export receipt: %w", err)
		}

		fmt.Printf("✓ Saved: %s\n", path)
		return nil
	},
}

func init() {
	receiptsCmd.AddCommand(receiptsListCmd)
	receiptsCmd.AddCommand(receiptsShowCmd)
	receiptsCmd.AddCommand(receiptsPDFCmd)

	receiptsPDFCmd.Flags().String("dir", "", "Output directory (defaults to output.receipt_dir)")
}
