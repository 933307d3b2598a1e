package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateEditing
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx transaction.Transaction
}

func (i txItem) Title() string {
	c := category.Resolve(i.tx.CategoryKind(), i.tx.Category)
	method := faintStyle.Render(fmt.Sprintf("[%s]", i.tx.PaymentMethod))

	return fmt.Sprintf("%s  %10s  %s  %s", FormatDate(i.tx.Date), FormatSigned(i.tx), method, i.tx.Description) +
		"  " + c.Icon + " " + c.Name
}

func (i txItem) Description() string { return "" }

func (i txItem) FilterValue() string { return i.tx.Description }

type TransactionsModel struct {
	CommonModel
	ledger          *ledger.Ledger
	matchingService *matching.Service

	state           txState
	timeframePicker TimeframePicker
	selection       TimeframeSelectedMsg
	rng             analytics.Range
	list            list.Model
	form            *huh.Form

	// selectedTx is nil while adding a new transaction.
	selectedTx *transaction.Transaction
	status     string
}

func NewTransactionsModel(l *ledger.Ledger, matchSvc *matching.Service) TransactionsModel {
	lst := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	lst.Title = "Transactions"
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)

	return TransactionsModel{
		ledger:          l,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker(),
		list:            lst,
	}
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.selection = msg
		m.state = txStateList
		m.status = ""
		m.refresh()

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			m.state = txStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "enter", "e":
			return m.startEditing()
		case "a":
			return m.startAdding()
		case "x":
			return m.remove()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) remove() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	ctx, cancel := StoreCtx()
	defer cancel()

	m.ledger.RemoveTransaction(ctx, selected.tx.ID)
	m.status = fmt.Sprintf("Deleted %q.", selected.tx.Description)
	m.refresh()

	return m, nil
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	m.selectedTx = nil
	m.form = m.buildForm(transaction.Transaction{
		Date:          calendar.Today(),
		Type:          transaction.TypeExpense,
		Category:      category.OtherExpense,
		PaymentMethod: transaction.PaymentPix,
	}, false)
	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selectedTx = &selected.tx
	m.form = m.buildForm(selected.tx, true)
	m.state = txStateEditing

	return m, m.form.Init()
}

func categoryOptions() []huh.Option[string] {
	var opts []huh.Option[string]

	for _, kind := range []category.Kind{category.KindExpense, category.KindIncome} {
		for _, c := range category.List(kind) {
			label := fmt.Sprintf("%s %s (%s)", c.Icon, c.Name, kind)
			opts = append(opts, huh.NewOption(label, c.ID))
		}
	}

	return opts
}

func (m TransactionsModel) buildForm(tx transaction.Transaction, editing bool) *huh.Form {
	amount := ""
	if !tx.Amount.IsZero() {
		amount = tx.Amount.String()
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("description").
			Title("Description").
			Value(new(tx.Description)).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("description cannot be empty")
				}

				return nil
			}),
		huh.NewInput().
			Key("amount").
			Title("Amount").
			Value(new(amount)).
			Validate(func(s string) error {
				d, err := decimal.NewFromString(strings.TrimSpace(s))
				if err != nil {
					return errors.New("amount must be a number")
				}

				if d.IsNegative() {
					return transaction.ErrNegativeAmount
				}

				return nil
			}),
		huh.NewInput().
			Key("date").
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(new(tx.Date.String())).
			Validate(func(s string) error {
				_, err := calendar.Parse(s)
				return err
			}),
		huh.NewSelect[string]().
			Key("type").
			Title("Type").
			Options(
				huh.NewOption("Expense", string(transaction.TypeExpense)),
				huh.NewOption("Income", string(transaction.TypeIncome)),
			).
			Value(new(string(tx.Type))),
		huh.NewSelect[string]().
			Key("category").
			Title("Category").
			Options(categoryOptions()...).
			Value(new(tx.Category)),
		huh.NewSelect[string]().
			Key("payment_method").
			Title("Payment method").
			Options(
				huh.NewOption("Pix", string(transaction.PaymentPix)),
				huh.NewOption("Debit", string(transaction.PaymentDebit)),
				huh.NewOption("Credit", string(transaction.PaymentCredit)),
				huh.NewOption("Cash", string(transaction.PaymentCash)),
			).
			Value(new(string(tx.PaymentMethod))),
	}

	if editing {
		fields = append(fields, huh.NewConfirm().
			Key("remember").
			Title("Remember for future imports?").
			Affirmative("Yes").
			Negative("No"))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(60).WithShowHelp(false)
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

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

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		header := faintStyle.Render(fmt.Sprintf("%s (%s → %s)", m.selection.Frame, m.rng.Start, m.rng.End))

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		help := faintStyle.Render("a: add | enter/e: edit | x: delete | /: filter | esc: timeframe")

		return lipgloss.NewStyle().Padding(1).Render(header + "\n" + statusLine + m.list.View() + "\n" + help)

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		title := "New Transaction"
		if m.selectedTx != nil {
			title = "Edit Transaction"
		}

		return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render(title) + "\n\n" + m.form.View())
	}

	return ""
}

func (m *TransactionsModel) refresh() {
	txs := m.ledger.Transactions()
	m.rng = m.selection.Resolve(txs)

	filtered := analytics.Filter(txs, m.rng)

	items := make([]list.Item, len(filtered))
	for i, tx := range filtered {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)

	if len(filtered) == 0 && m.status == "" {
		m.status = "No transactions found. Press a to add one."
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	var (
		original = m.selectedTx
		desc     = strings.TrimSpace(m.form.GetString("description"))
		amount   = decimal.RequireFromString(strings.TrimSpace(m.form.GetString("amount")))
		date     = calendar.Date(m.form.GetString("date"))
		txType   = transaction.Type(m.form.GetString("type"))
		cat      = m.form.GetString("category")
		method   = transaction.PaymentMethod(m.form.GetString("payment_method"))
		remember = m.form.GetBool("remember")
		l        = m.ledger
		matchSvc = m.matchingService
	)

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if original == nil {
			_, err := l.AddTransaction(ctx, transaction.CreateParams{
				Description:   desc,
				Amount:        amount,
				Date:          date,
				Category:      cat,
				Type:          txType,
				PaymentMethod: method,
			})
			if err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Added."}
		}

		_, err := l.UpdateTransaction(ctx, original.ID, transaction.Patch{
			Description:   &desc,
			Amount:        &amount,
			Date:          &date,
			Category:      &cat,
			Type:          &txType,
			PaymentMethod: &method,
		})
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		if !remember {
			return saveTxResultMsg{status: "Saved."}
		}

		err = matchSvc.Learn(ctx, l.User(), matching.Rule{
			Pattern:     original.Description,
			Description: desc,
			Category:    cat,
		})
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: "Saved and remembered for future imports."}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 1 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
}
