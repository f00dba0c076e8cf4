package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/payment"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show business statistics",
	Long: `Show aggregates over the whole ledger plus today / last 7 days /
this calendar month windows, and the month's best customer by sales.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	stats := store.Stats()

	fmt.Fprintln(os.Stdout, "Business overview")
	fmt.Fprintf(os.Stdout, "  Total sales:  %s\n", payment.FormatINR(stats.TotalSales))
	fmt.Fprintf(os.Stdout, "  Total paid:   %s\n", payment.FormatINR(stats.TotalPaid))
	fmt.Fprintf(os.Stdout, "  Total due:    %s\n", payment.FormatINR(stats.TotalDue))
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "Sales            Payments")
	fmt.Fprintf(os.Stdout, "  Today:   %-12s  %s\n", payment.FormatINR(stats.DailySales), payment.FormatINR(stats.DailyPayments))
	fmt.Fprintf(os.Stdout, "  7 days:  %-12s  %s\n", payment.FormatINR(stats.WeeklySales), payment.FormatINR(stats.WeeklyPayments))
	fmt.Fprintf(os.Stdout, "  Month:   %-12s  %s\n", payment.FormatINR(stats.MonthlySales), payment.FormatINR(stats.MonthlyPayments))

	if stats.BestCustomer != nil {
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintf(os.Stdout, "⭐ Best customer this month: %s (%s)\n",
			stats.BestCustomer.Name, payment.FormatINR(stats.BestCustomer.Amount))
	}
	return nil
}
