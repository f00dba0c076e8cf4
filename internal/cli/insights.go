package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/infra/insights"
)

func init() {
	rootCmd.AddCommand(insightsCmd)
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "AI summary of the business",
	Long: `Generate a short AI summary of the business with suggested action
items. Needs OPENAI_API_KEY in the environment; without it a standard
summary is printed instead.`,
	RunE: runInsights,
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	provider := insights.New(os.Getenv("OPENAI_API_KEY"), cfg.Insights.Model)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	insight := provider.BusinessInsights(ctx, store.Customers(true), store.Stats())

	fmt.Fprintf(os.Stdout, "%s\n", insight.Summary)
	if len(insight.ActionItems) > 0 {
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Action items:")
		for _, item := range insight.ActionItems {
			fmt.Fprintf(os.Stdout, "  • %s\n", item)
		}
	}
	return nil
}
