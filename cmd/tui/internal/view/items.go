package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/report"
)

var healthColors = map[item.Health]lipgloss.Color{
	item.HealthOK:                "42",
	item.HealthStale:             "11",
	item.HealthLastAttemptFailed: "196",
	item.HealthUnknown:           "240",
}

type ItemsModel struct {
	CommonModel
	itemService *item.Service

	table    table.Model
	statuses []item.Status
	loading  bool
	err      error
}

func NewItemsModel(itemSvc *item.Service) ItemsModel {
	return ItemsModel{
		itemService: itemSvc,
		loading:     true,
		table: newTable([]table.Column{
			{Title: "Item", Width: 24},
			{Title: "Institution", Width: 12},
			{Title: "Health", Width: 20},
			{Title: "Last Success", Width: 17},
			{Title: "Last Failure", Width: 17},
		}, 8),
	}
}

func (m ItemsModel) Title() string     { return "Item Health" }
func (m ItemsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m ItemsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadItemsMsg:
		m.loading = false
		m.err = msg.err
		m.statuses = msg.statuses
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *ItemsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.statuses))
	for _, s := range m.statuses {
		rows = append(rows, table.Row{
			s.Info.ItemID,
			s.Info.InstitutionID,
			string(s.Health),
			FormatOptionalTime(s.Info.LastSuccessfulUpdate),
			FormatOptionalTime(s.Info.LastFailedUpdate),
		})
	}

	m.table.SetRows(rows)
}

func (m ItemsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading items...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(m.err))
	}

	if len(m.statuses) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No items synced yet. Run a sync first.\n\n(Esc to back)")
	}

	parts := []string{renderTable(m.table)}

	idx := m.table.Cursor()
	if idx >= 0 && idx < len(m.statuses) {
		parts = append(parts, statusDetail(m.statuses[idx]))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func statusDetail(s item.Status) string {
	health := lipgloss.NewStyle().Foreground(healthColors[s.Health]).Render(string(s.Health))
	lines := []string{"Health: " + health}

	if s.Info.ConsentExpiresAt != nil {
		lines = append(lines, "Consent expires: "+FormatOptionalTime(s.Info.ConsentExpiresAt))
	}

	if len(s.Balances) == 0 {
		lines = append(lines, "No balances captured.")
	}

	for _, b := range s.Balances {
		lines = append(lines, report.BalanceLine(b))
	}

	return lipgloss.NewStyle().PaddingTop(1).Render(strings.Join(lines, "\n"))
}

type loadItemsMsg struct {
	statuses []item.Status
	err      error
}

func (m ItemsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		statuses, err := m.itemService.Statuses(ctx)

		return loadItemsMsg{statuses: statuses, err: err}
	}
}
