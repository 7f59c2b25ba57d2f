package view

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledgersync/internal/export"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

type transactionsState int

const (
	transactionsStateTimeframe transactionsState = iota
	transactionsStateBrowse
)

var pendingLabels = []string{"All", "Pending", "Settled"}

type TransactionsModel struct {
	CommonModel
	txService     *transaction.Service
	exportService *export.Service

	state  transactionsState
	picker TimeframePicker
	table  table.Model

	filter     transaction.ListFilter
	pendingIdx int

	txs     []*transaction.Transaction
	summary *transaction.Summary
	loading bool
	err     error
	status  string
}

func NewTransactionsModel(txSvc *transaction.Service, exportSvc *export.Service, recentDays int) TransactionsModel {
	return TransactionsModel{
		txService:     txSvc,
		exportService: exportSvc,
		picker:        NewTimeframePicker(recentDays, true),
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Account", Width: 14},
			{Title: "P", Width: 2},
			{Title: "Merchant", Width: 28},
			{Title: "Amount", Width: 14},
			{Title: "Category", Width: 28},
		}, 15),
	}
}

func (m TransactionsModel) Title() string { return "Browse Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == transactionsStateBrowse {
		return "Esc: timeframe | p: pending filter | r: refresh | x: export csv"
	}

	return "Esc: back | Enter: select"
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter.StartDate = nil
		m.filter.EndDate = nil

		if !msg.All {
			m.filter.StartDate = new(msg.Start)
			m.filter.EndDate = new(msg.End)
		}

		m.state = transactionsStateBrowse
		m.loading = true

		return m, m.loadCmd()

	case loadTransactionsMsg:
		m.loading = false
		m.err = msg.err
		m.txs = msg.txs
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Exported %d transactions to %s", msg.rows, msg.path)

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-14, 5))
		return m, nil
	}

	switch m.state {
	case transactionsStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case transactionsStateBrowse:
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = transactionsStateTimeframe
			m.picker.Reset()

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "x":
			m.status = "Exporting..."
			return m, m.exportCmd()
		case "p":
			m.pendingIdx = (m.pendingIdx + 1) % len(pendingLabels)

			switch m.pendingIdx {
			case 1:
				m.filter.Pending = new(true)
			case 2:
				m.filter.Pending = new(false)
			default:
				m.filter.Pending = nil
			}

			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		pending := ""
		if tx.Pending {
			pending = "*"
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.AccountID,
			pending,
			tx.MerchantName,
			FormatAmount(tx.Amount, tx.CurrencyCode),
			tx.Category.Detailed,
		})
	}

	m.table.SetRows(rows)
}

func (m TransactionsModel) View() string {
	if m.state == transactionsStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(m.err))
	}

	rangeLabel := "All Time"
	if m.filter.StartDate != nil && m.filter.EndDate != nil {
		rangeLabel = FormatDate(*m.filter.StartDate) + " to " + FormatDate(*m.filter.EndDate)
	}

	header := fmt.Sprintf("Range: %s | [p] Pending: %s",
		activeStyle(rangeLabel), activeStyle(pendingLabels[m.pendingIdx]))

	if m.status != "" {
		header = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + header
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		renderTable(m.table),
		summaryView(m.summary),
	))
}

func summaryView(s *transaction.Summary) string {
	if s == nil {
		return ""
	}

	codes := make([]string, 0, len(s.Totals))
	for code := range s.Totals {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	lines := []string{fmt.Sprintf("%d transactions, %d pending", s.Count, s.Pending)}
	for _, code := range codes {
		t := s.Totals[code]
		lines = append(lines, fmt.Sprintf("  out %s  in %s", FormatAmount(t.Outflow, code), FormatAmount(t.Inflow, code)))
	}

	return lipgloss.NewStyle().Faint(true).PaddingTop(1).Render(strings.Join(lines, "\n"))
}

type loadTransactionsMsg struct {
	txs     []*transaction.Transaction
	summary *transaction.Summary
	err     error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)
		if err != nil {
			return loadTransactionsMsg{err: err}
		}

		summary, err := m.txService.Summarize(ctx, filter)

		return loadTransactionsMsg{txs: txs, summary: summary, err: err}
	}
}

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

// exportCmd writes the current listing to a CSV file in the working directory.
func (m TransactionsModel) exportCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		path := export.Filename(filter, time.Now())

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		rows, err := m.exportService.Export(ctx, f, filter, export.Options{})
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}

		return exportDoneMsg{path: path, rows: rows, err: err}
	}
}
