package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ledgersync/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/ledgersync/internal/config"
	"github.com/MrJamesThe3rd/ledgersync/internal/database"
	"github.com/MrJamesThe3rd/ledgersync/internal/export"
	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	itemStore "github.com/MrJamesThe3rd/ledgersync/internal/item/store"
	"github.com/MrJamesThe3rd/ledgersync/internal/plaid"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	syncStore "github.com/MrJamesThe3rd/ledgersync/internal/reconcile/store"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
	txStore "github.com/MrJamesThe3rd/ledgersync/internal/transaction/store"
)

const logFile = "ledgersync-tui.log"

type model struct {
	cfg           *config.Config
	syncService   *reconcile.Service
	txService     *transaction.Service
	itemService   *item.Service
	exportService *export.Service

	currentView View

	syncView         view.SyncModel
	transactionsView view.TransactionsModel
	itemsView        view.ItemsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewSync         View = 1
	ViewTransactions View = 2
	ViewItems        View = 3
)

func initialModel(logger *slog.Logger) model {
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

	ctx, cancel := view.DbCtx()
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
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

	syncSvc := reconcile.NewService(provider, syncStore.New(db), reconcile.Config{
		PageSize: cfg.Sync.PageSize,
		MaxPages: cfg.Sync.MaxPages,
	}, logger)
	txSvc := transaction.NewService(txStore.New(db))
	itemSvc := item.NewService(itemStore.New(db), cfg.Sync.StaleAfter)

	return model{
		cfg:           cfg,
		syncService:   syncSvc,
		txService:     txSvc,
		itemService:   itemSvc,
		exportService: export.NewService(txSvc),
		currentView:   ViewMenu,
	}
}

func (m model) syncDefaults() view.SyncDefaults {
	return view.SyncDefaults{
		WindowDays:  m.cfg.Sync.WindowDays,
		Parallelism: m.cfg.Sync.Parallelism,
		Balances:    m.cfg.Sync.Balances,
		StaleAfter:  m.cfg.Sync.StaleAfter,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSync
				m.syncView = view.NewSyncModel(m.syncService, m.cfg.Plaid.Accounts, m.syncDefaults())

				return m, m.syncView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService, m.exportService, m.cfg.Sync.WindowDays)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewItems
				m.itemsView = view.NewItemsModel(m.itemService)

				return m, m.itemsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSync:
		var newModel tea.Model
		newModel, cmd = m.syncView.Update(msg)
		m.syncView = newModel.(view.SyncModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewItems:
		var newModel tea.Model
		newModel, cmd = m.itemsView.Update(msg)
		m.itemsView = newModel.(view.ItemsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"ledgersync TUI\n\n" +
				"1. Run Sync\n" +
				"2. Browse Transactions\n" +
				"3. Item Health\n\n" +
				"q. Quit",
		)
	case ViewSync:
		return withHelp(m.syncView)
	case ViewTransactions:
		return withHelp(m.transactionsView)
	case ViewItems:
		return withHelp(m.itemsView)
	}

	return "Unknown View"
}

func withHelp(v view.View) string {
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(v.Title()), v.View(), help)
}

func main() {
	// The terminal belongs to the TUI, so sync logs go to a file.
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(f, nil))

	p := tea.NewProgram(initialModel(logger))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
