package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
)

type dashboardState int

const (
	dashboardStateTimeframe dashboardState = iota
	dashboardStateSummary
)

var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	scoreColors = map[analytics.Score]lipgloss.Color{
		analytics.ScoreExcellent: lipgloss.Color("46"),
		analytics.ScoreStable:    lipgloss.Color("220"),
		analytics.ScoreCritical:  lipgloss.Color("196"),
	}
)

type DashboardModel struct {
	CommonModel
	ledger *ledger.Ledger

	state           dashboardState
	timeframePicker TimeframePicker
	frame           Timeframe

	summary    analytics.Summary
	allocation analytics.Allocation
	taxes      analytics.TaxOverview
}

func NewDashboardModel(l *ledger.Ledger) DashboardModel {
	return DashboardModel{
		ledger:          l,
		timeframePicker: NewTimeframePicker(),
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		txs := m.ledger.Transactions()

		m.frame = tfMsg.Frame
		m.summary = analytics.Summarize(txs, tfMsg.Resolve(txs))
		m.allocation = analytics.InvestmentAllocation(m.ledger.Investments())
		m.taxes = analytics.TaxSummary(m.ledger.Taxes(), calendar.Today())
		m.state = dashboardStateSummary

		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	if m.state == dashboardStateSummary {
		if isKey && keyMsg.Type == tea.KeyEsc {
			m.state = dashboardStateTimeframe
			m.timeframePicker.Reset()
		}

		return m, nil
	}

	if isKey && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	if m.state == dashboardStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	s := m.summary
	h := s.Health

	header := titleStyle.Render(fmt.Sprintf("%s  (%s → %s)", m.frame, s.Range.Start, s.Range.End))

	totals := panelStyle.Render(fmt.Sprintf(
		"Income   %s\nExpense  %s\nBalance  %s",
		successStyle.Render(FormatAmount(s.Totals.Income)),
		errorStyle.Render(FormatAmount(s.Totals.Expense)),
		FormatAmount(s.Totals.Balance),
	))

	score := lipgloss.NewStyle().Bold(true).Foreground(scoreColors[h.Score]).Render(string(h.Score))
	health := panelStyle.Render(fmt.Sprintf(
		"Health %s\n\nSavings rate      %6.1f%%\nDaily burn        %8.2f\nAverage ticket    %8.2f\nCredit dependency %6.1f%%\nSurvival days     %8.1f\nEfficiency        %8.2f\nConcentration     %6.1f%%\nTransactions      %8d\n\n%s",
		score,
		h.SavingsRate, h.DailyBurn, h.AvgTicket, h.CreditDependency,
		h.SurvivalDays, h.EfficiencyRatio, h.Concentration, h.TransactionCount,
		faintStyle.Render(h.Insight),
	))

	var breakdown strings.Builder
	breakdown.WriteString("Expenses by category\n\n")

	if len(s.ExpenseSlices) == 0 {
		breakdown.WriteString(faintStyle.Render("No expenses in this period."))
	}

	for _, slice := range s.ExpenseSlices {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(slice.Category.Color)).Render(slice.Category.Name)
		fmt.Fprintf(&breakdown, "%s %-14s %10s\n", slice.Category.Icon, name, FormatAmount(slice.Amount))
	}

	var months strings.Builder
	months.WriteString("Monthly\n\n")

	for _, p := range s.Monthly {
		fmt.Fprintf(&months, "%s  +%-10s -%s\n", p.Key, FormatAmount(p.Income), FormatAmount(p.Expense))
	}

	holdings := fmt.Sprintf("Invested  %s", FormatAmount(m.allocation.Total))

	obligations := fmt.Sprintf("Taxes paid %s | pending %s | overdue %d",
		FormatAmount(m.taxes.Paid), FormatAmount(m.taxes.Pending), m.taxes.Overdue)
	if next := m.taxes.NextDue; next != nil {
		obligations += fmt.Sprintf("\nNext due: %s %s on %s", next.Name, FormatAmount(next.Amount), next.DueDate)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, totals, " ", health),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(breakdown.String()), " ", panelStyle.Render(months.String())),
		"",
		panelStyle.Render(holdings+"\n"+obligations),
		"",
		faintStyle.Render("Esc: change timeframe"),
	))
}
