// Package cli implements the momai command tree. Every command works
// against the local ledger: reads and writes are instant, and changes
// replicate to the configured remote in the background.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/daemon"
	"github.com/momai-ledger/momai/internal/infra/sheets"
	"github.com/momai-ledger/momai/internal/infra/sqlite"
	"github.com/momai-ledger/momai/internal/ledger"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.momai/config.toml)")
}

var rootCmd = &cobra.Command{
	Use:   "momai",
	Short: "Khata ledger for small businesses",
	Long: `Momai keeps a digital khata: customers, credit sales, payments and
dues. Everything lives on this machine first, so the ledger keeps
working with no network. When a remote sheet is configured, every
change is pushed in the background and 'momai sync' pulls the latest
book from it.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is the only entry point main uses.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config honoring the global --config flag.
func loadConfig() (daemon.Config, error) {
	return daemon.Load(configPath)
}

// openLedger builds the store the same way the daemon does: local
// sqlite plus the remote transport from settings. Callers must Close
// the returned DB and Wait on the store before exiting so background
// pushes drain.
func openLedger() (*ledger.Store, *sqlite.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	sheetURL, err := db.GetSetting(sqlite.SettingSheetURL)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	store, err := ledger.New(db, sheets.New(sheetURL))
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	return store, db, nil
}

// closeLedger drains pushes and releases storage.
func closeLedger(store *ledger.Store, db *sqlite.DB) {
	store.Wait()
	db.Close()
}
