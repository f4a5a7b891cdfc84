package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/service"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, edit, list, pay, and export invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var filter domain.InvoiceFilter
		if cmd.Flags().Changed("client") {
			ref, _ := cmd.Flags().GetString("client")
			client, err := appInstance.ClientService.Resolve(ctx, ref)
			if err != nil {
				return fmt.Errorf("failed to resolve client: %w", err)
			}
			filter.ClientID = &client.ID
		}
		if cmd.Flags().Changed("status") {
			raw, _ := cmd.Flags().GetString("status")
			status, err := domain.ParseInvoiceStatus(raw)
			if err != nil {
				return err
			}
			filter.Status = &status
		}
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		invoices, err := appInstance.InvoiceService.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		fmt.Printf("%-10s %-20s %-12s %-28s %12s %-8s %-10s\n",
			"Number", "Client", "Date", "Services", "Total", "Status", "Receipt")
		fmt.Println(strings.Repeat("-", 106))

		for _, inv := range invoices {
			fmt.Printf("%-10s %-20s %-12s %-28s %12s %-8s %-10s\n",
				inv.InvoiceNumber,
				truncate(inv.ClientName, 20),
				inv.InvoiceDate.Format("2006-01-02"),
				truncate(inv.Services, 28),
				money(inv.Total),
				inv.Status,
				inv.ReceiptNumber,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create [client_id_or_name]",
	Short: "Create a pending invoice",
	Long: `Create a pending invoice for a client.

Line items come from repeated --item flags and/or an --items-file:
  invoicer invoices create Acme --item "Design|2|500|Logo and brand" --item "Hosting|1|20"
  invoicer invoices create 3 --items-file items.yaml --date 2024-03-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := appInstance.ClientService.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve client: %w", err)
		}

		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parseDate(dateStr)
		if err != nil {
			return fmt.Errorf("invalid invoice date: %w", err)
		}

		itemFlags, _ := cmd.Flags().GetStringArray("item")
		itemsFile, _ := cmd.Flags().GetString("items-file")
		items, err := collectItems(itemFlags, itemsFile)
		if err != nil {
			return err
		}

		blank, _ := cmd.Flags().GetBool("leave-date-blank")

		number, err := appInstance.InvoiceService.Create(ctx, service.CreateInvoiceParams{
			ClientID:       client.ID,
			InvoiceDate:    date,
			LeaveDateBlank: blank,
			Items:          items,
		})
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		fmt.Printf("✓ Invoice created: %s\n", number)
		fmt.Printf("  Client: %s\n", client.Name)
		if inv, err := appInstance.InvoiceService.Get(ctx, number); err == nil {
			fmt.Printf("  Total: %s\n", money(inv.Total))
		}
		return nil
	},
}

var invoicesEditCmd = &cobra.Command{
	Use:   "edit [number]",
	Short: "Edit a pending invoice",
	Long: `Edit a pending invoice. Passing any --item or --items-file replaces all
line items; otherwise the current items are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		flags := cmd.Flags()

		inv, err := appInstance.InvoiceService.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		params := service.UpdateInvoiceParams{
			LeaveDateBlank: inv.LeaveDateBlank,
			Items:          itemInputs(inv.LineItems),
		}

		if flags.Changed("client") {
			ref, _ := flags.GetString("client")
			client, err := appInstance.ClientService.Resolve(ctx, ref)
			if err != nil {
				return fmt.Errorf("failed to resolve client: %w", err)
			}
			params.ClientID = client.ID
		}
		if flags.Changed("date") {
			dateStr, _ := flags.GetString("date")
			if params.InvoiceDate, err = parseDate(dateStr); err != nil {
				return fmt.Errorf("invalid invoice date: %w", err)
			}
		}
		if flags.Changed("leave-date-blank") {
			params.LeaveDateBlank, _ = flags.GetBool("leave-date-blank")
		}
		if flags.Changed("item") || flags.Changed("items-file") {
			itemFlags, _ := flags.GetStringArray("item")
			itemsFile, _ := flags.GetString("items-file")
			if params.Items, err = collectItems(itemFlags, itemsFile); err != nil {
				return err
			}
		}

		if err := appInstance.InvoiceService.Update(ctx, inv.InvoiceNumber, params); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		fmt.Printf("✓ Invoice updated: %s\n", inv.InvoiceNumber)
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.InvoiceService.Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		clientName := fmt.Sprintf("Client #%d", inv.ClientID)
		if inv.Client != nil {
			clientName = inv.Client.Name
		}

		date := inv.InvoiceDate.Format("2006-01-02")
		if inv.LeaveDateBlank {
			date += " (printed blank)"
		}

		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Invoice: %s\n", inv.InvoiceNumber)
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Client: %s\n", clientName)
		fmt.Printf("Date:   %s\n", date)
		fmt.Printf("Status: %s\n", inv.Status)
		if inv.ReceiptNumber != "" {
			fmt.Printf("Receipt: %s\n", inv.ReceiptNumber)
		}
		fmt.Println()

		fmt.Println("Line Items:")
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("%-20s %-30s %5s %10s %11s\n", "Service", "Description", "Qty", "Rate", "Amount")
		fmt.Println(strings.Repeat("-", 80))
		for _, item := range inv.LineItems {
			fmt.Printf("%-20s %-30s %5d %10s %11s\n",
				truncate(item.ServiceName, 20),
				truncate(item.ServiceDescription, 30),
				item.Quantity,
				money(item.Rate),
				money(item.Amount),
			)
		}
		fmt.Println(strings.Repeat("-", 80))

		fmt.Printf("Total: %s\n", money(inv.Total))
		fmt.Println(strings.Repeat("=", 80))
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [number]",
	Short: "Delete a pending invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.InvoiceService.Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Printf("✓ Invoice deleted: %s\n", args[0])
		return nil
	},
}

var invoicesMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid [number]",
	Short: "Mark an invoice as paid and issue its receipt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		receipt, err := appInstance.InvoiceService.MarkPaid(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to mark invoice as paid: %w", err)
		}

		fmt.Printf("✓ Invoice %s marked as paid\n", receipt.InvoiceNumber)
		fmt.Printf("  Receipt: %s (%s)\n", receipt.ReceiptNumber, money(receipt.PaidAmount))

		if pdf, _ := cmd.Flags().GetBool("pdf"); pdf {
			path, err := appInstance.DocumentService.ExportReceipt(ctx, receipt.ReceiptNumber, "")
			if err != nil {
				return fmt.Errorf("failed to export receipt: %w", err)
			}
			fmt.Printf("  Saved: %s\n", path)
		}
		return nil
	},
}

var invoicesPDFCmd = &cobra.Command{
	Use:   "pdf [number]",
	Short: "Export an invoice as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		path, err := appInstance.DocumentService.ExportInvoice(context.Background(), args[0], dir)
		if err != nil {
			return fmt.Errorf("failed to export invoice: %w", err)
		}

		fmt.Printf("✓ Saved: %s\n", path)
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesEditCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesMarkPaidCmd)
	invoicesCmd.AddCommand(invoicesPDFCmd)

	// List flags
	invoicesListCmd.Flags().String("client", "", "Filter by client ID or name")
	invoicesListCmd.Flags().String("status", "", "Filter by status (pending, paid)")
	invoicesListCmd.Flags().Int("limit", 0, "Show at most this many invoices")

	// Create and edit flags
	for _, c := range []*cobra.Command{invoicesCreateCmd, invoicesEditCmd} {
		c.Flags().String("date", "", "Invoice date (YYYY-MM-DD, today, yesterday; defaults to today)")
		c.Flags().StringArray("item", nil, `Line item "Service|qty|rate[|description]" (repeatable)`)
		c.Flags().String("items-file", "", "YAML file of line items")
		c.Flags().Bool("leave-date-blank", false, "Print a blank line instead of the date")
	}
	invoicesEditCmd.Flags().String("client", "", "Move the invoice to another client (ID or name)")

	invoicesMarkPaidCmd.Flags().Bool("pdf", false, "Also export the receipt PDF")
	invoicesPDFCmd.Flags().String("dir", "", "Output directory (defaults to output.invoice_dir)")
}
