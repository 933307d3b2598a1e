package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through uncategorized transactions, renaming and
// categorizing each one and remembering the choice as a matching rule.
type ReviewModel struct {
	CommonModel
	ledger          *ledger.Ledger
	matchingService *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue     []transaction.Transaction
	currentTx *transaction.Transaction

	descInput   textinput.Model
	categories  []category.Category
	categoryIdx int

	status     string
	totalCount int
}

func NewReviewModel(l *ledger.Ledger, matchSvc *matching.Service) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Description"
	ti.Width = 50

	return ReviewModel{
		ledger:          l,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker(),
		descInput:       ti,
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// needsReview reports whether tx still sits in a catch-all category.
func needsReview(tx transaction.Transaction) bool {
	return tx.Category == category.OtherExpense || tx.Category == category.OtherIncome || tx.Category == ""
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		txs := m.ledger.Transactions()

		m.queue = nil
		for _, tx := range analytics.Filter(txs, msg.Resolve(txs)) {
			if needsReview(tx) {
				m.queue = append(m.queue, tx)
			}
		}

		m.totalCount = len(m.queue)
		m.state = reviewStateReviewing

		if len(m.queue) == 0 {
			m.currentTx = nil
			m.status = "No uncategorized transactions found."

			return m, nil
		}

		m.nextTx()

		return m, textinput.Blink

	case reviewSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.nextTx()

		return m, textinput.Blink
	}

	if m.state == reviewStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = reviewStateTimeframe
			m.timeframePicker.Reset()
			m.currentTx = nil

			return m, nil
		case tea.KeyTab:
			if len(m.categories) > 0 {
				m.categoryIdx = (m.categoryIdx + 1) % len(m.categories)
			}

			return m, nil
		case tea.KeyShiftTab:
			if len(m.categories) > 0 {
				m.categoryIdx = (m.categoryIdx - 1 + len(m.categories)) % len(m.categories)
			}

			return m, nil
		case tea.KeyCtrlN:
			m.nextTx()
			return m, nil
		case tea.KeyEnter:
			if m.currentTx != nil {
				return m, m.saveAndNextCmd()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.currentTx != nil {
		m.descInput, cmd = m.descInput.Update(msg)
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(
			titleStyle.Render("Review uncategorized transactions") + "\n\n" + m.timeframePicker.View(),
		)
	}

	if m.currentTx == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to choose another timeframe)")
	}

	info := fmt.Sprintf(
		"Date:    %s\nType:    %s\nAmount:  %s\nPayment: %s\nRaw:     %s\n",
		FormatDate(m.currentTx.Date),
		m.currentTx.Type,
		FormatAmount(m.currentTx.Amount),
		m.currentTx.PaymentMethod,
		m.currentTx.Description,
	)

	cat := "-"
	if len(m.categories) > 0 {
		c := m.categories[m.categoryIdx]
		cat = c.Icon + " " + c.Name
	}

	content := fmt.Sprintf(
		"%s\n\n%s\nDescription:\n%s\n\nCategory: %s\n\n%s",
		m.status,
		info,
		m.descInput.View(),
		lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(cat),
		faintStyle.Render("tab/shift+tab: category | enter: save & next | ctrl+n: skip | esc: back"),
	)

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func (m *ReviewModel) nextTx() {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done! Nothing left to review."
		m.descInput.Blur()

		return
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	m.currentTx = &tx

	currentIdx := m.totalCount - len(m.queue)
	m.status = fmt.Sprintf("Reviewing %d/%d", currentIdx, m.totalCount)

	kind := category.KindExpense
	if tx.Type == transaction.TypeIncome {
		kind = category.KindIncome
	}

	m.categories = category.List(kind)
	m.categoryIdx = max(0, slices.IndexFunc(m.categories, func(c category.Category) bool {
		return c.ID == tx.Category
	}))

	desc := tx.Description

	ctx, cancel := StoreCtx()
	defer cancel()

	if rule, ok, err := m.matchingService.Suggest(ctx, m.ledger.User(), tx.Description); err == nil && ok {
		desc = rule.Description

		if i := slices.IndexFunc(m.categories, func(c category.Category) bool { return c.ID == rule.Category }); i >= 0 {
			m.categoryIdx = i
		}

		m.status += " (suggested from a saved rule)"
	}

	m.descInput.SetValue(desc)
	m.descInput.Focus()
}

type reviewSaveMsg struct {
	err error
}

func (m ReviewModel) saveAndNextCmd() tea.Cmd {
	var (
		original = *m.currentTx
		desc     = strings.TrimSpace(m.descInput.Value())
		cat      = m.categories[m.categoryIdx].ID
		l        = m.ledger
		matchSvc = m.matchingService
	)

	if desc == "" {
		desc = original.Description
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		_, err := l.UpdateTransaction(ctx, original.ID, transaction.Patch{
			Description: &desc,
			Category:    &cat,
		})
		if err != nil {
			return reviewSaveMsg{err: err}
		}

		err = matchSvc.Learn(ctx, l.User(), matching.Rule{
			Pattern:     original.Description,
			Description: desc,
			Category:    cat,
		})

		return reviewSaveMsg{err: err}
	}
}
