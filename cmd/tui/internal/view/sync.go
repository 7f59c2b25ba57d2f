package view

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	"github.com/MrJamesThe3rd/ledgersync/internal/report"
)

const syncTimeout = 10 * time.Minute

type syncState int

const (
	syncStateForm syncState = iota
	syncStateTimeframe
	syncStateRunning
	syncStateResult
)

// SyncDefaults seed the run form.
type SyncDefaults struct {
	WindowDays  int
	Parallelism int
	Balances    bool
	StaleAfter  time.Duration
}

// syncForm holds the form bindings. It lives behind a pointer so huh keeps
// writing to the same fields while the model is copied around.
type syncForm struct {
	mode     string
	accounts []string
	balances bool
}

type SyncModel struct {
	CommonModel
	svc      *reconcile.Service
	accounts map[string]string
	defaults SyncDefaults

	state   syncState
	form    *huh.Form
	input   *syncForm
	picker  TimeframePicker
	spinner spinner.Model
	table   table.Model
	cancel  context.CancelFunc

	summary *reconcile.Summary
	err     error
}

func NewSyncModel(svc *reconcile.Service, accounts map[string]string, defaults SyncDefaults) SyncModel {
	if defaults.StaleAfter <= 0 {
		defaults.StaleAfter = item.DefaultStaleAfter
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := SyncModel{
		svc:      svc,
		accounts: accounts,
		defaults: defaults,
		picker:   NewTimeframePicker(defaults.WindowDays, false),
		spinner:  sp,
		table: newTable([]table.Column{
			{Title: "Account", Width: 20},
			{Title: "New", Width: 5},
			{Title: "Pending", Width: 8},
			{Title: "Archived", Width: 9},
			{Title: "Accounts", Width: 9},
			{Title: "Status", Width: 40},
		}, 10),
	}
	m.form, m.input = newSyncForm(accounts, defaults)

	return m
}

func newSyncForm(accounts map[string]string, defaults SyncDefaults) (*huh.Form, *syncForm) {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}

	sort.Strings(names)

	input := &syncForm{
		mode:     string(reconcile.ModeWindow),
		accounts: names,
		balances: defaults.Balances,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mode").
				Options(
					huh.NewOption("Date range (diff against stored)", string(reconcile.ModeWindow)),
					huh.NewOption("Cursor (changes since last run)", string(reconcile.ModeCursor)),
				).
				Value(&input.mode),

			huh.NewMultiSelect[string]().
				Title("Accounts").
				Options(huh.NewOptions(names...)...).
				Value(&input.accounts).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one account")
					}
					return nil
				}),

			huh.NewConfirm().
				Title("Capture balances?").
				Value(&input.balances),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, input
}

func (m SyncModel) Title() string { return "Run Sync" }

func (m SyncModel) ShortHelp() string {
	switch m.state {
	case syncStateRunning:
		return "Esc: cancel"
	case syncStateResult:
		return "Esc: back | r: run again"
	}

	return "Esc: back"
}

func (m SyncModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncDoneMsg:
		m.cancel = nil
		m.state = syncStateResult
		m.summary = msg.summary
		m.err = msg.err
		m.refreshTable()

		return m, nil

	case spinner.TickMsg:
		if m.state != syncStateRunning {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case TimeframeSelectedMsg:
		return m.start(reconcile.Window{Start: msg.Start, End: msg.End})
	}

	switch m.state {
	case syncStateForm:
		return m.updateForm(msg)
	case syncStateTimeframe:
		return m.updateTimeframe(msg)
	case syncStateRunning:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.cancel != nil {
			m.cancel()
		}
	case syncStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m SyncModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if reconcile.Mode(m.input.mode) == reconcile.ModeCursor {
		return m.start(reconcile.Window{})
	}

	m.state = syncStateTimeframe
	m.picker.Reset()

	return m, nil
}

func (m SyncModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m.restart()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m SyncModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m.restart()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SyncModel) restart() (tea.Model, tea.Cmd) {
	m.state = syncStateForm
	m.summary = nil
	m.err = nil
	m.form, m.input = newSyncForm(m.accounts, m.defaults)

	return m, m.form.Init()
}

func (m SyncModel) start(window reconcile.Window) (tea.Model, tea.Cmd) {
	accounts, err := reconcile.SelectAccounts(m.accounts, m.input.accounts)
	if err != nil {
		m.state = syncStateResult
		m.err = err

		return m, nil
	}

	opts := reconcile.Options{
		Mode:        reconcile.Mode(m.input.mode),
		Window:      window,
		Balances:    m.input.balances,
		Parallelism: m.defaults.Parallelism,
	}

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	m.cancel = cancel
	m.state = syncStateRunning

	svc := m.svc

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		defer cancel()

		summary, err := svc.SyncAll(ctx, accounts, opts)

		return syncDoneMsg{summary: summary, err: err}
	})
}

func (m *SyncModel) refreshTable() {
	if m.summary == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.summary.Results))
	for _, r := range m.summary.Results {
		rows = append(rows, table.Row{
			r.Account,
			strconv.Itoa(r.Counts.New),
			strconv.Itoa(r.Counts.NewPending),
			strconv.Itoa(r.Counts.Archived),
			strconv.Itoa(r.Counts.Accounts),
			resultStatus(r),
		})
	}

	m.table.SetRows(rows)
}

func resultStatus(r reconcile.Result) string {
	if perr, ok := r.ProviderError(); ok {
		return fmt.Sprintf("%s: %s", perr.Kind, perr.Code)
	}

	if r.Err != nil {
		return fmt.Sprintf("failed at %s", r.Stage)
	}

	return "ok (" + r.Duration.Round(time.Millisecond).String() + ")"
}

func (m SyncModel) View() string {
	var content string

	switch m.state {
	case syncStateForm:
		content = m.form.View()
	case syncStateTimeframe:
		content = m.picker.View()
	case syncStateRunning:
		content = fmt.Sprintf("%s Syncing %d accounts (%s)...", m.spinner.View(), len(m.input.accounts), m.input.mode)
	case syncStateResult:
		content = m.resultView()
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m SyncModel) resultView() string {
	if m.err != nil {
		return errorText(m.err) + "\n\n(r to try again, Esc to back)"
	}

	totals := m.summary.Totals()
	header := fmt.Sprintf("Run %s: %s new, %s archived, %s failed",
		m.summary.RunID.String()[:8],
		activeStyle(strconv.Itoa(totals.New)),
		activeStyle(strconv.Itoa(totals.Archived)),
		activeStyle(strconv.Itoa(m.summary.Failed())),
	)

	parts := []string{header, renderTable(m.table)}

	idx := m.table.Cursor()
	if idx >= 0 && idx < len(m.summary.Results) {
		if detail := resultDetail(m.summary.Results[idx]); detail != "" {
			parts = append(parts, detail)
		}
	}

	if warnings := report.Warnings(m.summary.Results, time.Now(), m.defaults.StaleAfter); len(warnings) > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(strings.Join(warnings, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func resultDetail(r reconcile.Result) string {
	var lines []string

	for _, b := range r.Balances {
		lines = append(lines, report.BalanceLine(b))
	}

	if r.Err != nil {
		lines = append(lines, errorText(r.Err))
	}

	return strings.Join(lines, "\n")
}

type syncDoneMsg struct {
	summary *reconcile.Summary
	err     error
}
