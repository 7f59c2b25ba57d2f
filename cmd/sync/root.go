package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/ledgersync/internal/config"
	"github.com/MrJamesThe3rd/ledgersync/internal/database"
	"github.com/MrJamesThe3rd/ledgersync/internal/plaid"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	syncStore "github.com/MrJamesThe3rd/ledgersync/internal/reconcile/store"
	"github.com/MrJamesThe3rd/ledgersync/internal/report"
)

type flags struct {
	verbose    bool
	balances   bool
	startDate  string
	endDate    string
	cursorSync bool
	accounts   []string
	parallel   int
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "ledgersync",
		Short: "Synchronise Plaid transactions into the local ledger",
		Long: `Fetches transactions (and optionally balances) for every configured
Plaid account and reconciles them with the local ledger.

By default the last 30 days are re-read and diffed against what is stored.
With --cursor-sync only the changes since the previous run are applied.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log every step instead of showing progress")
	fl.BoolVarP(&f.balances, "balances", "b", false, "also capture current account balances")
	fl.StringVarP(&f.startDate, "start-date", "s", "", "[YYYY-MM-DD] first day to fetch (default: 30 days ago)")
	fl.StringVarP(&f.endDate, "end-date", "e", "", "[YYYY-MM-DD] last day to fetch (default: today)")
	fl.BoolVar(&f.cursorSync, "cursor-sync", false, "replay changes since the stored cursor instead of diffing a date range")
	fl.StringSliceVar(&f.accounts, "account", nil, "only sync the named accounts (repeatable)")
	fl.IntVar(&f.parallel, "parallel", 0, "accounts to sync at once (default: SYNC_PARALLELISM)")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	_ = godotenv.Load()

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	window, err := parseWindow(f.startDate, f.endDate, time.Now(), cfg.Sync.WindowDays)
	if err != nil {
		return err
	}

	accounts, err := reconcile.SelectAccounts(cfg.Plaid.Accounts, f.accounts)
	if err != nil {
		return fmt.Errorf("%w (configured: %v)", err, cfg.AccountNames())
	}

	if len(accounts) == 0 {
		return fmt.Errorf("no accounts configured, set PLAID_ACCOUNTS")
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	provider := plaid.NewClient(plaid.Config{
		ClientID: cfg.Plaid.ClientID,
		Secret:   cfg.Plaid.Secret,
		Env:      cfg.Plaid.Env,
		Timeout:  cfg.Plaid.Timeout,
		Rate:     cfg.Plaid.Rate,
	})

	svc := reconcile.NewService(provider, syncStore.New(db), reconcile.Config{
		PageSize: cfg.Sync.PageSize,
		MaxPages: cfg.Sync.MaxPages,
	}, logger)

	parallel := f.parallel
	if parallel <= 0 {
		parallel = cfg.Sync.Parallelism
	}

	opts := reconcile.Options{
		Mode:        reconcile.ModeWindow,
		Window:      window,
		Balances:    f.balances || cfg.Sync.Balances,
		Parallelism: parallel,
	}

	if f.cursorSync {
		opts.Mode = reconcile.ModeCursor
	}

	// Progress bars share one terminal line, so they only make sense one account at a time.
	if !f.verbose && parallel <= 1 {
		opts.Progress = newProgressReporter(cmd.ErrOrStderr()).observer
	}

	summary, err := svc.SyncAll(ctx, accounts, opts)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), summary, report.Options{StaleAfter: cfg.Sync.StaleAfter}); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d accounts failed", failed, len(summary.Results))
	}

	return nil
}

// parseWindow applies the default window of the last days up to today to
// whichever bound is not given.
func parseWindow(start, end string, now time.Time, days int) (reconcile.Window, error) {
	window := reconcile.LastDays(now, days)

	if start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return reconcile.Window{}, fmt.Errorf("invalid --start-date %q: %w", start, err)
		}

		window.Start = t
	}

	if end != "" {
		t, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return reconcile.Window{}, fmt.Errorf("invalid --end-date %q: %w", end, err)
		}

		window.End = t
	}

	if err := window.Validate(); err != nil {
		return reconcile.Window{}, err
	}

	return window, nil
}
