package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show invoice and receipt totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if clientArg, _ := cmd.Flags().GetString("client"); clientArg != "" {
			return printClientSummary(clientArg)
		}
		if year, _ := cmd.Flags().GetInt("year"); year != 0 {
			return printRevenue(year)
		}

		d, err := appInstance.ReportService.Dashboard(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}

		if !d.ContractorSetUp {
			fmt.Println("! No contractor profile yet. Run 'invoicer contractor set --name ...'")
			fmt.Println()
		}

		fmt.Printf("Clients:   %d\n", d.ClientCount)
		fmt.Printf("Invoices:  %d (%d pending, %d paid)\n",
			d.Invoices.TotalCount, d.Invoices.PendingCount, d.Invoices.PaidCount)
		fmt.Printf("Billed:    %s\n", money(d.Invoices.TotalAmount))
		fmt.Printf("Pending:   %s\n", money(d.Invoices.PendingAmount))
		fmt.Printf("Received:  %s across %d receipt(s), %d in the last 30 days\n",
			money(d.Receipts.TotalReceived), d.Receipts.TotalReceipts, d.Receipts.RecentReceipts)

		if len(d.RecentInvoices) > 0 {
			fmt.Println()
			fmt.Println("Recent invoices:")
			fmt.Println(strings.Repeat("-", 60))
			for _, inv := range d.RecentInvoices {
				fmt.Printf("  %-10s %-20s %12s %s\n",
					inv.InvoiceNumber, truncate(inv.ClientName, 20), money(inv.Total), inv.Status)
			}
		}

		if len(d.RecentReceipts) > 0 {
			fmt.Println()
			fmt.Println("Recent receipts:")
			fmt.Println(strings.Repeat("-", 60))
			for _, r := range d.RecentReceipts {
				fmt.Printf("  %-10s %-10s %12s %s\n",
					r.ReceiptNumber, r.InvoiceNumber, money(r.PaidAmount), r.PaymentDate.Local().Format("2006-01-02"))
			}
		}

		return nil
	},
}

func printClientSummary(idOrName string) error {
	ctx := context.Background()

	client, err := appInstance.ClientService.Resolve(ctx, idOrName)
	if err != nil {
		return err
	}
	summary, err := appInstance.ReportService.GetClientSummary(ctx, client.ID)
	if err != nil {
		return fmt.Errorf("failed to load client summary: %w", err)
	}

	fmt.Printf("%s (ID: %d)\n", client.Name, client.ID)
	fmt.Printf("Invoices:     %d\n", summary.InvoiceCount)
	fmt.Printf("Billed:       %s\n", money(summary.Billed))
	fmt.Printf("Outstanding:  %s\n", money(summary.Outstanding))
	fmt.Printf("Paid:         %s\n", money(summary.Paid))

	if len(summary.Invoices) > 0 {
		fmt.Println()
		for _, inv := range summary.Invoices {
			fmt.Printf("  %-10s %s %12s %s\n",
				inv.InvoiceNumber, inv.InvoiceDate.Format("2006-01-02"), money(inv.Total), inv.Status)
		}
	}
	return nil
}

func printRevenue(year int) error {
	revenue, err := appInstance.ReportService.GetRevenueByMonth(context.Background(), year)
	if err != nil {
		return fmt.Errorf("failed to load revenue: %w", err)
	}

	fmt.Printf("Received in %d\n", year)
	fmt.Println(strings.Repeat("-", 24))

	var total float64
	for m := time.January; m <= time.December; m++ {
		fmt.Printf("  %-9s %12s\n", m.String(), money(revenue[m]))
		total += revenue[m]
	}
	fmt.Println(strings.Repeat("-", 24))
	fmt.Printf("  %-9s %12s\n", "Total", money(total))
	return nil
}

func init() {
	statsCmd.Flags().String("client", "", "Show totals for one client (ID or name)")
	statsCmd.Flags().Int("year", 0, "Show money received per month for a year")
}
