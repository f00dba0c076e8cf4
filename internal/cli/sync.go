package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the latest ledger from the remote sheet",
	Long: `Fetch the full book from the configured remote sheet and merge it
into the local ledger. Remote records win for shared ids; records that
exist only locally are kept. Local data is never touched when the pull
fails.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	store, db, err := openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(store, db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Refresh(ctx); err != nil {
		return err
	}

	lastSync := time.Now().Format("15:04")
	if err := db.SetSetting(sqlite.SettingLastSync, lastSync); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✅ Synced with remote at %s\n", lastSync)
	fmt.Fprintf(os.Stdout, "   %d customers, %d transactions in the ledger.\n",
		len(store.Customers(true)), len(store.Transactions()))
	return nil
}
