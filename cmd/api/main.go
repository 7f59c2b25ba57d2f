package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ledgersync/internal/config"
	"github.com/MrJamesThe3rd/ledgersync/internal/database"
	"github.com/MrJamesThe3rd/ledgersync/internal/export"
	ledgerHttp "github.com/MrJamesThe3rd/ledgersync/internal/http"
	"github.com/MrJamesThe3rd/ledgersync/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/export"
	itemHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/item"
	syncHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/reconcile"
	txHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/transaction"
	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	itemStore "github.com/MrJamesThe3rd/ledgersync/internal/item/store"
	"github.com/MrJamesThe3rd/ledgersync/internal/plaid"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	syncStore "github.com/MrJamesThe3rd/ledgersync/internal/reconcile/store"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
	txStore "github.com/MrJamesThe3rd/ledgersync/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	provider := plaid.NewClient(plaid.Config{
		ClientID: cfg.Plaid.ClientID,
		Secret:   cfg.Plaid.Secret,
		Env:      cfg.Plaid.Env,
		Timeout:  cfg.Plaid.Timeout,
		Rate:     cfg.Plaid.Rate,
	})

	var (
		syncService = reconcile.NewService(provider, syncStore.New(db), reconcile.Config{
			PageSize: cfg.Sync.PageSize,
			MaxPages: cfg.Sync.MaxPages,
		}, slog.Default())
		transactionService = transaction.NewService(txStore.New(db))
		itemService        = item.NewService(itemStore.New(db), cfg.Sync.StaleAfter)
		exportService      = export.NewService(transactionService)
	)

	var (
		syncH = syncHandler.NewHandler(syncService, cfg.Plaid.Accounts, syncHandler.Defaults{
			WindowDays:  cfg.Sync.WindowDays,
			Parallelism: cfg.Sync.Parallelism,
			Balances:    cfg.Sync.Balances,
		})
		transactionH = txHandler.NewHandler(transactionService)
		itemH        = itemHandler.NewHandler(itemService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	authenticator := auth.New(cfg.API.JWTSecret)
	if !authenticator.Enabled() {
		slog.Warn("API_JWT_SECRET is not set, the API is unauthenticated")
	}

	router := ledgerHttp.New(ledgerHttp.Options{
		AllowedOrigins: cfg.API.AllowedOrigins,
		Auth:           authenticator,
	}, syncH, transactionH, itemH, exportH)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
		// No write timeout: a sync request lasts as long as the provider takes.
		ReadTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "accounts", len(cfg.Plaid.Accounts))

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
