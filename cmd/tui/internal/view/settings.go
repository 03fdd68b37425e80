package view

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/tracker"
)

type SettingsModel struct {
	CommonModel
	svc *tracker.Service

	form   *huh.Form
	dest   *string
	saving bool
}

func NewSettingsModel(svc *tracker.Service) SettingsModel {
	dest := svc.Destination()

	m := SettingsModel{
		svc:  svc,
		dest: &dest,
	}
	m.form = m.buildForm()

	return m
}

func (m SettingsModel) Title() string     { return "Settings" }
func (m SettingsModel) ShortHelp() string { return "Enter: save | Esc: back" }

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettingsModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("destination").
				Title("Sync Destination URL").
				Description("New expenses are POSTed here. Leave empty to disable.").
				Placeholder("https://...").
				Value(m.dest).
				Validate(validateDestination),
		),
	).WithWidth(70).WithShowHelp(false)
}

func validateDestination(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}

	return nil
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		m.saving = false

		if msg.err != nil {
			m.form = m.buildForm()
			return m, tea.Batch(m.form.Init(), status(fmt.Sprintf("Error saving settings: %v", msg.err)))
		}

		return m, tea.Batch(status("Settings saved!"), Back)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd(*m.dest)
}

func (m SettingsModel) View() string {
	current := "not configured"
	if d := m.svc.Destination(); d != "" {
		current = d
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Faint(true).Render("Current: "+current),
			"",
			m.form.View(),
		),
	)
}

type settingsSavedMsg struct {
	err error
}

func (m SettingsModel) saveCmd(dest string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return settingsSavedMsg{err: m.svc.SetDestination(ctx, dest)}
	}
}
