package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/sink"
	"github.com/MrJamesThe3rd/tally/internal/tracker"
)

// addFields is shared by pointer with the form so values survive model copies.
type addFields struct {
	amount      string
	category    string
	description string
	date        string
}

type AddModel struct {
	CommonModel
	svc *tracker.Service

	fields     *addFields
	form       *huh.Form
	submitting bool
	added      []expense.Record
}

func NewAddModel(svc *tracker.Service) AddModel {
	fields := &addFields{
		category: string(expense.CategoryFood),
		date:     time.Now().Format(time.DateOnly),
	}

	return AddModel{
		svc:    svc,
		fields: fields,
		form:   buildAddForm(fields),
	}
}

func (m AddModel) Title() string     { return "Add Expense" }
func (m AddModel) ShortHelp() string { return "Enter: next | Esc: back" }

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func buildAddForm(f *addFields) *huh.Form {
	categories := expense.Categories()

	options := make([]huh.Option[string], 0, len(categories))
	for _, c := range categories {
		options = append(options, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(func(s string) error {
					_, err := expense.ParseAmount(s)
					return err
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&f.category),

			huh.NewInput().
				Key("description").
				Title("Description").
				Placeholder("optional").
				Value(&f.description),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return expense.ErrInvalidDate
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addResultMsg:
		m.submitting = false

		if msg.err != nil {
			m.form = buildAddForm(m.fields)
			return m, tea.Batch(m.form.Init(), status(fmt.Sprintf("Error: %v", msg.err)))
		}

		m.added = append([]expense.Record{msg.rec}, m.added...)
		if len(m.added) > 5 {
			m.added = m.added[:5]
		}

		m.fields.amount = ""
		m.fields.description = ""
		m.form = buildAddForm(m.fields)

		return m, tea.Batch(
			m.form.Init(),
			status(fmt.Sprintf("Added %s %s", msg.rec.Category, FormatAmount(msg.rec.Amount))),
			waitForSync(msg.sync),
		)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true

	return m, m.addCmd()
}

func (m AddModel) View() string {
	content := m.form.View()

	if len(m.added) > 0 {
		var sb strings.Builder

		sb.WriteString("Added this session:\n")

		for _, rec := range m.added {
			sb.WriteString(fmt.Sprintf("  %s  %-15s %10s  %s\n", rec.Date, rec.Category, FormatAmount(rec.Amount), rec.Description))
		}

		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			"",
			lipgloss.NewStyle().Faint(true).Render(sb.String()),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type addResultMsg struct {
	rec  expense.Record
	sync <-chan sink.Status
	err  error
}

func (m AddModel) addCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		amount, err := expense.ParseAmount(f.amount)
		if err != nil {
			return addResultMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		rec, delivery, err := m.svc.Add(ctx, expense.Params{
			Date:        f.date,
			Amount:      amount,
			Category:    expense.Category(f.category),
			Description: f.description,
		})

		return addResultMsg{rec: rec, sync: delivery.Status, err: err}
	}
}
