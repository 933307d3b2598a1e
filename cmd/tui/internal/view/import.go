package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financia/internal/importer"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepBank importStep = iota
	importStepFile
	importStepRunning
	importStepConflicts
	importStepDone
)

// ImportModel reads a bank statement, rewrites it with the saved rules and
// lets the user decide which likely duplicates to keep.
type ImportModel struct {
	CommonModel
	ledger          *ledger.Ledger
	importService   *importer.Service
	matchingService *matching.Service

	step       importStep
	bankForm   *huh.Form
	bank       importer.Bank
	filePicker filepicker.Model

	pending   []transaction.CreateParams
	conflicts []transaction.Conflict
	keep      map[int]bool
	review    list.Model

	message string
	failed  bool
}

func NewImportModel(l *ledger.Ledger, impSvc *importer.Service, matchSvc *matching.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledger:          l,
		importService:   impSvc,
		matchingService: matchSvc,
		bankForm:        newBankForm(impSvc.Banks()),
		filePicker:      fp,
		keep:            make(map[int]bool),
	}
}

func newBankForm(banks []importer.Bank) *huh.Form {
	opts := make([]huh.Option[string], len(banks))
	for i, b := range banks {
		opts[i] = huh.NewOption(bankLabel(b), string(b))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("bank").
				Title("Statement bank").
				Options(opts...),
		),
	).WithWidth(40).WithShowHelp(false)
}

func bankLabel(b importer.Bank) string {
	if b == importer.BankAuto {
		return "auto-detect"
	}

	return strings.ToUpper(string(b))
}

func (m ImportModel) Init() tea.Cmd {
	return m.bankForm.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.stepBack()
		}

	case parsedMsg:
		return m.onParsed(msg), nil

	case storedMsg:
		m.step = importStepDone
		m.failed = msg.err != nil

		if m.failed {
			m.message = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.message = fmt.Sprintf("Imported %d transactions.", msg.count)
		}

		return m, nil
	}

	switch m.step {
	case importStepBank:
		return m.updateBank(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepConflicts:
		return m.updateConflicts(msg)
	}

	return m, nil
}

func (m ImportModel) stepBack() (tea.Model, tea.Cmd) {
	switch m.step {
	case importStepBank:
		return m, Back
	case importStepRunning:
		return m, nil
	}

	m.step = importStepBank
	m.pending, m.conflicts = nil, nil
	m.keep = make(map[int]bool)
	m.message, m.failed = "", false
	m.bankForm = newBankForm(m.importService.Banks())

	return m, m.bankForm.Init()
}

func (m ImportModel) updateBank(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.bankForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.bankForm = f
	}

	if m.bankForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.bank = importer.Bank(m.bankForm.GetString("bank"))
	m.step = importStepFile

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	didSelect, path := m.filePicker.DidSelectFile(msg)
	if !didSelect {
		return m, cmd
	}

	m.step = importStepRunning
	m.message = fmt.Sprintf("Reading %s...", path)

	return m, m.parseCmd(path)
}

func (m ImportModel) onParsed(msg parsedMsg) ImportModel {
	if msg.err != nil {
		m.step = importStepDone
		m.failed = true
		m.message = fmt.Sprintf("Error: %v", msg.err)

		return m
	}

	if len(msg.conflicts) == 0 {
		m.step = importStepDone
		m.message = fmt.Sprintf("Imported %d transactions, %d matched by rules.", msg.imported, msg.matched)

		return m
	}

	m.pending = msg.pending
	m.conflicts = msg.conflicts
	m.keep = make(map[int]bool)
	m.step = importStepConflicts

	items := make([]list.Item, len(m.conflicts))
	for i, c := range m.conflicts {
		items[i] = conflictItem{conflict: c, index: i}
	}

	m.review = list.New(items, conflictDelegate{keep: m.keep}, 90, 20)
	m.review.Title = fmt.Sprintf("%d possible duplicates (%d new records will be imported)", len(m.conflicts), len(m.pending))
	m.review.SetShowStatusBar(false)
	m.review.SetFilteringEnabled(false)
	m.review.SetShowHelp(false)

	return m
}

func (m ImportModel) updateConflicts(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			i := m.review.Index()
			m.keep[i] = !m.keep[i]

			return m, nil
		case "a", "n":
			for i := range m.conflicts {
				m.keep[i] = keyMsg.String() == "a"
			}

			return m, nil
		case "enter":
			m.step = importStepRunning
			m.message = "Saving..."

			return m, m.storeCmd(m.selection())
		}
	}

	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)

	return m, cmd
}

// selection returns the new records plus the duplicates the user chose to keep.
func (m ImportModel) selection() []transaction.CreateParams {
	params := append([]transaction.CreateParams(nil), m.pending...)

	for i, c := range m.conflicts {
		if m.keep[i] {
			params = append(params, c.Incoming)
		}
	}

	return params
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepBank:
		return pad.Render(titleStyle.Render("Import Statement") + "\n\n" + m.bankForm.View())

	case importStepFile:
		return pad.Render(fmt.Sprintf("Pick a %s statement:\n\n%s", bankLabel(m.bank), m.filePicker.View()))

	case importStepRunning:
		return pad.Render(m.message)

	case importStepConflicts:
		return pad.Render(m.review.View() + "\n" +
			faintStyle.Render("space: keep/skip | a: keep all | n: skip all | enter: import | esc: cancel"))

	case importStepDone:
		style := successStyle
		if m.failed {
			style = errorStyle
		}

		return pad.Render(style.Render(m.message) + "\n\n(Esc to import another file)")
	}

	return ""
}

type parsedMsg struct {
	pending   []transaction.CreateParams
	conflicts []transaction.Conflict
	imported  int
	matched   int
	err       error
}

type storedMsg struct {
	count int
	err   error
}

// parseCmd imports straight away when nothing collides with stored records.
func (m ImportModel) parseCmd(path string) tea.Cmd {
	var (
		bank     = m.bank
		l        = m.ledger
		impSvc   = m.importService
		matchSvc = m.matchingService
	)

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		params, err := impSvc.Import(bank, f)
		if err != nil {
			return parsedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		matched, err := matchSvc.Apply(ctx, l.User(), params)
		if err != nil {
			return parsedMsg{err: err}
		}

		pending, conflicts := transaction.FindConflicts(l.Transactions(), params)
		if len(conflicts) > 0 {
			return parsedMsg{pending: pending, conflicts: conflicts, matched: matched}
		}

		txs, err := l.ImportTransactions(ctx, pending)
		if err != nil {
			return parsedMsg{err: err}
		}

		return parsedMsg{imported: len(txs), matched: matched}
	}
}

func (m ImportModel) storeCmd(params []transaction.CreateParams) tea.Cmd {
	l := m.ledger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := l.ImportTransactions(ctx, params)

		return storedMsg{count: len(txs), err: err}
	}
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) FilterValue() string { return i.conflict.Incoming.Description }

// conflictDelegate draws each conflict as the incoming row over the stored one.
type conflictDelegate struct {
	keep map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	mark := "[ ]"
	if d.keep[item.index] {
		mark = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	in, ex := item.conflict.Incoming, item.conflict.Existing

	fmt.Fprintf(w, "%s%s %s  %10s  %s\n", cursor, mark, FormatDate(in.Date), FormatAmount(in.Amount), in.Description)
	fmt.Fprintf(w, "      stored: %s  %10s  %s [%s]\n", FormatDate(ex.Date), FormatAmount(ex.Amount), ex.Description, ex.PaymentMethod)
}
