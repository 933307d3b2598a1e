package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/tax"
)

type taxesState int

const (
	taxesStateBrowse taxesState = iota
	taxesStateAdd
)

type TaxesModel struct {
	CommonModel
	ledger *ledger.Ledger

	state  taxesState
	table  table.Model
	taxes  []tax.Tax
	form   *huh.Form
	status string
}

func NewTaxesModel(l *ledger.Ledger) TaxesModel {
	columns := []table.Column{
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Name", Width: 30},
		{Title: "Category", Width: 20},
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

	m := TaxesModel{ledger: l, table: t}
	m.refresh(l.Taxes())

	return m
}

func (m TaxesModel) Init() tea.Cmd {
	return nil
}

func (m TaxesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taxSaveMsg:
		m.state = taxesStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = "Added."
		m.refresh(msg.taxes)

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case taxesStateBrowse:
		return m.updateBrowse(msg)
	case taxesStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m TaxesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterAddMode()
		case "t", " ":
			return m.withSelected(func(ctx context.Context, t tax.Tax) ([]tax.Tax, string) {
				return m.ledger.ToggleTaxStatus(ctx, t.ID), fmt.Sprintf("%s marked %s.", t.Name, t.Status.Toggled())
			})
		case "x":
			return m.withSelected(func(ctx context.Context, t tax.Tax) ([]tax.Tax, string) {
				return m.ledger.RemoveTax(ctx, t.ID), fmt.Sprintf("Deleted %s.", t.Name)
			})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TaxesModel) withSelected(fn func(context.Context, tax.Tax) ([]tax.Tax, string)) (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.taxes) {
		return m, nil
	}

	ctx, cancel := StoreCtx()
	defer cancel()

	taxes, status := fn(ctx, m.taxes[idx])
	m.status = status
	m.refresh(taxes)

	return m, nil
}

func (m TaxesModel) enterAddMode() (tea.Model, tea.Cmd) {
	var opts []huh.Option[string]
	for _, c := range category.List(category.KindTax) {
		opts = append(opts, huh.NewOption(c.Icon+" "+c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return tax.ErrMissingName
					}

					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return errors.New("amount must be a number")
					}

					if d.IsNegative() {
						return tax.ErrNegativeAmount
					}

					return nil
				}),
			huh.NewInput().
				Key("due_date").
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error {
					_, err := calendar.Parse(s)
					return err
				}),
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(opts...),
			huh.NewSelect[string]().
				Key("status").
				Title("Status").
				Options(
					huh.NewOption("Pending", string(tax.StatusPending)),
					huh.NewOption("Paid", string(tax.StatusPaid)),
				),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = taxesStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m TaxesModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = taxesStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m TaxesModel) View() string {
	overview := analytics.TaxSummary(m.taxes, calendar.Today())

	header := fmt.Sprintf("Paid: %s | Pending: %s",
		successStyle.Render(FormatAmount(overview.Paid)),
		errorStyle.Render(FormatAmount(overview.Pending)))

	if overview.NextDue != nil {
		header += fmt.Sprintf(" | Next due: %s on %s", overview.NextDue.Name, FormatDate(overview.NextDue.DueDate))
	}

	if overview.Overdue > 0 {
		header += errorStyle.Render(fmt.Sprintf(" | %d overdue", overview.Overdue))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Taxes"),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render("a: add | t/space: toggle paid | x: delete | esc: back"),
	)

	if m.state == taxesStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Tax\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TaxesModel) refresh(taxes []tax.Tax) {
	m.taxes = taxes

	rows := make([]table.Row, 0, len(taxes))
	for _, t := range taxes {
		rows = append(rows, table.Row{
			FormatDate(t.DueDate),
			string(t.Status),
			FormatAmount(t.Amount),
			t.Name,
			category.Resolve(category.KindTax, t.Category).Name,
		})
	}

	m.table.SetRows(rows)
}

type taxSaveMsg struct {
	taxes []tax.Tax
	err   error
}

func (m TaxesModel) saveCmd() tea.Cmd {
	params := tax.CreateParams{
		Name:     strings.TrimSpace(m.form.GetString("name")),
		Amount:   decimal.RequireFromString(strings.TrimSpace(m.form.GetString("amount"))),
		DueDate:  calendar.Date(m.form.GetString("due_date")),
		Category: m.form.GetString("category"),
		Status:   tax.Status(m.form.GetString("status")),
	}
	l := m.ledger

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		taxes, err := l.AddTax(ctx, params)

		return taxSaveMsg{taxes: taxes, err: err}
	}
}
