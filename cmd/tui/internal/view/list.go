package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/tracker"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateConfirm
)

type ListModel struct {
	CommonModel
	svc *tracker.Service

	state   listState
	table   table.Model
	records []expense.Record
	total   decimal.Decimal
	summary expense.Summary
	form    *huh.Form

	// Heap-allocated so the confirm field keeps its binding across copies.
	confirmed *bool
}

func NewListModel(svc *tracker.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 15},
		{Title: "Description", Width: 30},
		{Title: "Amount", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		svc:       svc,
		table:     t,
		confirmed: new(bool),
	}
}

func (m ListModel) Title() string { return "Expenses" }
func (m ListModel) ShortHelp() string {
	if m.state == listStateConfirm {
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.records = msg.records
		m.total = msg.total
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case deleteMsg:
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		text := "Nothing deleted"
		if msg.removed {
			text = "Expense deleted"
		}

		return m, tea.Batch(status(text), m.loadCmd())

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "x", "delete":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterConfirm() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return m, nil
	}

	rec := m.records[idx]
	*m.confirmed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %s on %s?", rec.Category, FormatAmount(rec.Amount), rec.Date)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirmed {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return m, nil
	}

	// Leave the confirm state before the delete lands.
	m.state = listStateBrowse
	m.form = nil

	return m, m.deleteCmd(m.records[idx].ID)
}

func (m ListModel) View() string {
	header := fmt.Sprintf(
		"%d expenses | Total: %s | This month: %s",
		len(m.records),
		activeStyle(FormatAmount(m.total)),
		activeStyle(FormatAmount(m.summary.MonthTotal)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		rows = append(rows, table.Row{
			rec.Date,
			string(rec.Category),
			rec.Description,
			FormatAmount(rec.Amount),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	records []expense.Record
	total   decimal.Decimal
	summary expense.Summary
}

func (m ListModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		records, total := m.svc.List()
		return loadListMsg{records: records, total: total, summary: m.svc.Summary()}
	}
}

type deleteMsg struct {
	removed bool
}

func (m ListModel) deleteCmd(id expense.ID) tea.Cmd {
	return func() tea.Msg {
		return deleteMsg{removed: m.svc.Delete(id)}
	}
}
