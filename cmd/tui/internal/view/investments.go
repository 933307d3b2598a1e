package view

import (
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
	"github.com/MrJamesThe3rd/financia/internal/investment"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
)

type investmentsState int

const (
	investmentsStateBrowse investmentsState = iota
	investmentsStateForm
)

type InvestmentsModel struct {
	CommonModel
	ledger *ledger.Ledger

	state       investmentsState
	table       table.Model
	investments []investment.Investment
	form        *huh.Form
	// editing is the id of the investment being edited, empty when adding.
	editing string
	status  string
}

func NewInvestmentsModel(l *ledger.Ledger) InvestmentsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Ticker", Width: 8},
			{Title: "Amount", Width: 12},
			{Title: "Name", Width: 28},
			{Title: "Category", Width: 20},
		}),
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

	m := InvestmentsModel{ledger: l, table: t}
	m.refresh(l.Investments())

	return m
}

func (m InvestmentsModel) Init() tea.Cmd {
	return nil
}

func (m InvestmentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case investmentSaveMsg:
		m.state = investmentsStateBrowse
		m.form = nil
		m.editing = ""
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		m.refresh(msg.investments)

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	if m.state == investmentsStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m InvestmentsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.openForm(nil)
		case "e", "enter":
			if inv, ok := m.selected(); ok {
				return m.openForm(&inv)
			}

			return m, nil
		case "x":
			inv, ok := m.selected()
			if !ok {
				return m, nil
			}

			ctx, cancel := StoreCtx()
			defer cancel()

			m.refresh(m.ledger.RemoveInvestment(ctx, inv.ID))
			m.status = fmt.Sprintf("Deleted %s.", inv.Name)

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvestmentsModel) selected() (investment.Investment, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.investments) {
		return investment.Investment{}, false
	}

	return m.investments[idx], true
}

// openForm shows an empty form for a new investment, or one filled with inv.
func (m InvestmentsModel) openForm(inv *investment.Investment) (tea.Model, tea.Cmd) {
	var (
		name, ticker string
		amount       string
		date         = calendar.Today().String()
		cat          = category.OtherInvestment
	)

	m.editing = ""

	if inv != nil {
		m.editing = inv.ID
		name, ticker = inv.Name, inv.Ticker
		amount = inv.Amount.StringFixed(2)
		date = inv.Date.String()
		cat = category.Resolve(category.KindInvestment, inv.Category).ID
	}

	var opts []huh.Option[string]
	for _, c := range category.List(category.KindInvestment) {
		opts = append(opts, huh.NewOption(c.Icon+" "+c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return investment.ErrMissingName
					}

					return nil
				}),
			huh.NewInput().
				Key("ticker").
				Title("Ticker").
				Placeholder("optional").
				Value(&ticker),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return errors.New("amount must be a number")
					}

					if d.IsNegative() {
						return investment.ErrNegativeAmount
					}

					return nil
				}),
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&date).
				Validate(func(s string) error {
					_, err := calendar.Parse(s)
					return err
				}),
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(opts...).
				Value(&cat),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = investmentsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvestmentsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = investmentsStateBrowse
		m.form = nil
		m.editing = ""
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

	return m, m.saveCmd()
}

func (m InvestmentsModel) View() string {
	alloc := analytics.InvestmentAllocation(m.investments)

	header := "Total invested: " + successStyle.Render(FormatAmount(alloc.Total))
	if len(alloc.Slices) > 0 {
		top := alloc.Slices[0]
		header += fmt.Sprintf(" | Largest: %s %s (%s)", top.Category.Icon, top.Category.Name, FormatAmount(top.Amount))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Investments"),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render("a: add | e/enter: edit | x: delete | esc: back"),
	)

	if m.state == investmentsStateForm && m.form != nil {
		title := "New Investment"
		if m.editing != "" {
			title = "Edit Investment"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvestmentsModel) refresh(invs []investment.Investment) {
	m.investments = invs

	rows := make([]table.Row, 0, len(invs))
	for _, inv := range invs {
		rows = append(rows, table.Row{
			FormatDate(inv.Date),
			inv.Ticker,
			FormatAmount(inv.Amount),
			inv.Name,
			category.Resolve(category.KindInvestment, inv.Category).Name,
		})
	}

	m.table.SetRows(rows)
}

type investmentSaveMsg struct {
	investments []investment.Investment
	status      string
	err         error
}

func (m InvestmentsModel) saveCmd() tea.Cmd {
	params := investment.CreateParams{
		Name:     strings.TrimSpace(m.form.GetString("name")),
		Ticker:   strings.ToUpper(strings.TrimSpace(m.form.GetString("ticker"))),
		Amount:   decimal.RequireFromString(strings.TrimSpace(m.form.GetString("amount"))),
		Date:     calendar.Date(m.form.GetString("date")),
		Category: m.form.GetString("category"),
	}

	return saveInvestment(m.ledger, m.editing, params)
}

// saveInvestment adds params as a new investment, or overwrites the one with id.
func saveInvestment(l *ledger.Ledger, id string, params investment.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if id == "" {
			invs, err := l.AddInvestment(ctx, params)
			return investmentSaveMsg{investments: invs, status: "Added " + params.Name + ".", err: err}
		}

		invs, err := l.UpdateInvestment(ctx, id, investment.Patch{
			Name:     &params.Name,
			Ticker:   &params.Ticker,
			Amount:   &params.Amount,
			Date:     &params.Date,
			Category: &params.Category,
		})

		return investmentSaveMsg{investments: invs, status: "Updated " + params.Name + ".", err: err}
	}
}
