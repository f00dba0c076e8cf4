package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/momai-ledger/momai/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger API server",
	Long: `Run the local HTTP API with background auto-pull from the remote
sheet. The server stays up until interrupted and shuts down cleanly,
draining any in-flight replication pushes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return daemon.Run(context.Background(), cfg)
}
