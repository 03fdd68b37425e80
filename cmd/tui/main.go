package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/logger"
	"github.com/MrJamesThe3rd/tally/internal/tracker"
)

type model struct {
	tracker   *tracker.Service
	exportDir string

	currentView View
	status      string

	addView      view.AddModel
	listView     view.ListModel
	exportView   view.ExportModel
	settingsView view.SettingsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewAdd      View = 1
	ViewList     View = 2
	ViewExport   View = 3
	ViewSettings View = 4
)

func initialModel(svc *tracker.Service, exportDir string) model {
	status := ""
	if svc.Destination() == "" {
		status = "Sync is off. Set a destination URL in Settings to mirror new expenses."
	}

	return model{
		tracker:     svc,
		exportDir:   exportDir,
		currentView: ViewMenu,
		status:      status,
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
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.tracker)

				return m, m.addView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.tracker)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.tracker, m.exportDir)

				return m, m.exportView.Init()
			case "4":
				m.currentView = ViewSettings
				m.settingsView = view.NewSettingsModel(m.tracker)

				return m, m.settingsView.Init()
			}
		}
	case view.StatusMsg:
		m.status = string(msg)
		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewSettings:
		var newModel tea.Model
		newModel, cmd = m.settingsView.Update(msg)
		m.settingsView = newModel.(view.SettingsModel)
	}

	return m, cmd
}

func (m model) View() string {
	var (
		body string
		help string
	)

	switch m.currentView {
	case ViewMenu:
		_, total := m.tracker.List()
		body = lipgloss.NewStyle().Padding(2).Render(
			"Tally\n\n" +
				"Total: " + view.FormatAmount(total) + "\n\n" +
				"1. Add Expense\n" +
				"2. List Expenses\n" +
				"3. Export to Excel\n" +
				"4. Settings\n\n" +
				"q. Quit",
		)
	case ViewAdd:
		body, help = m.addView.View(), m.addView.ShortHelp()
	case ViewList:
		body, help = m.listView.View(), m.listView.ShortHelp()
	case ViewExport:
		body, help = m.exportView.View(), m.exportView.ShortHelp()
	case ViewSettings:
		body, help = m.settingsView.View(), m.settingsView.ShortHelp()
	default:
		return "Unknown View"
	}

	footer := lipgloss.NewStyle().Faint(true).PaddingLeft(2)

	if m.status != "" {
		body += "\n" + footer.Foreground(lipgloss.Color("214")).Render(m.status)
	}

	if help != "" {
		body += "\n" + footer.Render(help)
	}

	return body
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log, err := logger.New(cfg.Log.Level, logFile)
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(log)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a.Tracker, cfg.Export.Dir))
	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Close(ctx); err != nil {
		log.Error("closing app", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
