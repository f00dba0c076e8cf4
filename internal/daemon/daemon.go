package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/momai-ledger/momai/internal/api"
	"github.com/momai-ledger/momai/internal/infra/insights"
	"github.com/momai-ledger/momai/internal/infra/sheets"
	"github.com/momai-ledger/momai/internal/infra/sqlite"
	"github.com/momai-ledger/momai/internal/ledger"
)

// ─── Daemon lifecycle ───────────────────────────────────────────────────────

// Run starts the full service: local storage, the ledger, the HTTP API,
// and (when a remote is configured) the periodic background pull. It
// blocks until the context is cancelled or the process receives
// SIGINT/SIGTERM, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := seedSettings(db, cfg); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	// The settings table, not the config file, is authoritative for the
	// remote endpoint after first run.
	sheetURL, err := db.GetSetting(sqlite.SettingSheetURL)
	if err != nil {
		return fmt.Errorf("read sheet url: %w", err)
	}
	transport := sheets.New(sheetURL)

	store, err := ledger.New(db, transport)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	provider := insights.New(os.Getenv("OPENAI_API_KEY"), cfg.Insights.Model)

	server := api.NewServer(store, db, provider)
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	var scheduler *cron.Cron
	if cfg.Sync.AutoPull && transport.Configured() {
		scheduler = cron.New()
		spec := fmt.Sprintf("@every %s", cfg.PullEvery())
		if _, err := scheduler.AddFunc(spec, func() { backgroundPull(ctx, store) }); err != nil {
			return fmt.Errorf("schedule auto-pull: %w", err)
		}
		scheduler.Start()
		log.Info().Str("interval", cfg.PullEvery().String()).Msg("auto-pull scheduled")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("api listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}

	// Let in-flight replication pushes drain before exit.
	store.Wait()
	return nil
}

// seedSettings copies the business profile and remote endpoint from the
// config file into the settings table, but only for keys not yet set.
func seedSettings(db *sqlite.DB, cfg Config) error {
	seeds := map[string]string{
		sqlite.SettingSheetURL:     cfg.Sync.SheetURL,
		sqlite.SettingBusinessName: cfg.Business.Name,
		sqlite.SettingUPIID:        cfg.Business.UPIID,
	}
	for key, value := range seeds {
		if value == "" {
			continue
		}
		current, err := db.GetSetting(key)
		if err != nil {
			return err
		}
		if current != "" {
			continue
		}
		if err := db.SetSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}

// backgroundPull refreshes from the remote on the auto-pull schedule.
// Failures are logged and retried on the next tick.
func backgroundPull(ctx context.Context, store *ledger.Store) {
	pullCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := store.Refresh(pullCtx); err != nil {
		log.Warn().Err(err).Msg("auto-pull failed")
		return
	}
	log.Debug().Msg("auto-pull complete")
}
