package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.AddCommand(setupShowCmd)
	setupCmd.AddCommand(setupSetCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the business profile and remote sheet",
	Long: `Read or change the stored settings: the remote sheet endpoint, the
UPI id used in payment links, and the business name shown in reminders.`,
}

// ─── setup show ─────────────────────────────────────────────────────────────

var setupShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSetupShow,
}

func runSetupShow(cmd *cobra.Command, args []string) error {
	db, err := openSettings()
	if err != nil {
		return err
	}
	defer db.Close()

	rows := []struct{ label, key string }{
		{"Business name", sqlite.SettingBusinessName},
		{"UPI id", sqlite.SettingUPIID},
		{"Sheet URL", sqlite.SettingSheetURL},
		{"Last sync", sqlite.SettingLastSync},
	}
	for _, row := range rows {
		value, err := db.GetSetting(row.key)
		if err != nil {
			return err
		}
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(os.Stdout, "  %-14s %s\n", row.label+":", value)
	}
	return nil
}

// ─── setup set ──────────────────────────────────────────────────────────────

var setupSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a setting (name | upi | sheet-url)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetupSet,
}

func runSetupSet(cmd *cobra.Command, args []string) error {
	key, ok := map[string]string{
		"name":      sqlite.SettingBusinessName,
		"upi":       sqlite.SettingUPIID,
		"sheet-url": sqlite.SettingSheetURL,
	}[args[0]]
	if !ok {
		return fmt.Errorf("unknown setting %q: use name, upi or sheet-url", args[0])
	}

	db, err := openSettings()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetSetting(key, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✅ %s updated.\n", args[0])
	return nil
}

// openSettings opens local storage without loading the full ledger.
func openSettings() (*sqlite.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
