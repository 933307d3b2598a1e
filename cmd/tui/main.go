package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/financia/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/assistant/gemini"
	"github.com/MrJamesThe3rd/financia/internal/auth"
	"github.com/MrJamesThe3rd/financia/internal/backend"
	"github.com/MrJamesThe3rd/financia/internal/config"
	"github.com/MrJamesThe3rd/financia/internal/importer"
	"github.com/MrJamesThe3rd/financia/internal/logging"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/financia/internal/matching/store"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

type model struct {
	directory       *auth.Directory
	sessions        *session.Manager
	matchingService *matching.Service
	importService   *importer.Service

	user        auth.User
	session     *session.Session
	currentView View
	size        tea.WindowSizeMsg

	loginView        view.LoginModel
	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	investmentsView  view.InvestmentsModel
	taxesView        view.TaxesModel
	importView       view.ImportModel
	reviewView       view.ReviewModel
	chatView         view.ChatModel
	exportView       view.ExportModel
}

type View int

const (
	ViewLogin View = iota
	ViewMenu
	ViewDashboard
	ViewTransactions
	ViewInvestments
	ViewTaxes
	ViewImport
	ViewReview
	ViewChat
	ViewExport
)

func newModel(directory *auth.Directory, sessions *session.Manager, matchSvc *matching.Service, impSvc *importer.Service) model {
	return model{
		directory:       directory,
		sessions:        sessions,
		matchingService: matchSvc,
		importService:   impSvc,
		currentView:     ViewLogin,
		loginView:       view.NewLoginModel(directory, sessions),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

// open switches to v with a fresh model bound to the signed-in user's ledger.
func (m model) open(v View) (model, tea.Cmd) {
	l := m.session.Ledger

	var cmd tea.Cmd

	switch v {
	case ViewDashboard:
		m.dashboardView = view.NewDashboardModel(l)
		cmd = m.dashboardView.Init()
	case ViewTransactions:
		m.transactionsView = view.NewTransactionsModel(l, m.matchingService)
		cmd = m.transactionsView.Init()
	case ViewInvestments:
		m.investmentsView = view.NewInvestmentsModel(l)
		cmd = m.investmentsView.Init()
	case ViewTaxes:
		m.taxesView = view.NewTaxesModel(l)
		cmd = m.taxesView.Init()
	case ViewImport:
		m.importView = view.NewImportModel(l, m.importService, m.matchingService)
		cmd = m.importView.Init()
	case ViewReview:
		m.reviewView = view.NewReviewModel(l, m.matchingService)
		cmd = m.reviewView.Init()
	case ViewChat:
		m.chatView = view.NewChatModel(m.session)
		cmd = m.chatView.Init()
	case ViewExport:
		m.exportView = view.NewExportModel(l)
		cmd = m.exportView.Init()
	default:
		return m, nil
	}

	m.currentView = v

	// Replay the last known size so lists and viewports fit the terminal.
	if m.size.Width > 0 {
		var sizeCmd tea.Cmd
		m, sizeCmd = m.delegate(m.size)
		cmd = tea.Batch(cmd, sizeCmd)
	}

	return m, cmd
}

var menuKeys = map[string]View{
	"1": ViewDashboard,
	"2": ViewTransactions,
	"3": ViewInvestments,
	"4": ViewTaxes,
	"5": ViewImport,
	"6": ViewReview,
	"7": ViewChat,
	"8": ViewExport,
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "l":
				m.sessions.Drop(m.user.Email)
				m.session = nil
				m.user = auth.User{}
				m.currentView = ViewLogin
				m.loginView = view.NewLoginModel(m.directory, m.sessions)

				return m, m.loginView.Init()
			}

			if v, ok := menuKeys[msg.String()]; ok {
				return m.open(v)
			}

			return m, nil
		}

	case view.LoggedInMsg:
		m.user = msg.User
		m.session = msg.Session
		m.currentView = ViewMenu

		return m, nil

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	return m.delegate(msg)
}

func (m model) delegate(msg tea.Msg) (model, tea.Cmd) {
	var (
		newModel tea.Model
		cmd      tea.Cmd
	)

	switch m.currentView {
	case ViewLogin:
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewDashboard:
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewInvestments:
		newModel, cmd = m.investmentsView.Update(msg)
		m.investmentsView = newModel.(view.InvestmentsModel)
	case ViewTaxes:
		newModel, cmd = m.taxesView.Update(msg)
		m.taxesView = newModel.(view.TaxesModel)
	case ViewImport:
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewChat:
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewExport:
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Financia\n" +
				lipgloss.NewStyle().Faint(true).Render("Signed in as "+m.user.Name+" <"+m.user.Email+">") + "\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Investments\n" +
				"4. Taxes\n" +
				"5. Import Statement\n" +
				"6. Review Uncategorized\n" +
				"7. Assistant Chat\n" +
				"8. Export Transactions\n\n" +
				"l. Sign out\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewInvestments:
		return m.investmentsView.View()
	case ViewTaxes:
		return m.taxesView.View()
	case ViewImport:
		return m.importView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewChat:
		return m.chatView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func newLogger(cfg *config.Config) (*slog.Logger, func() error) {
	if cfg.Log.File == "" {
		return logging.Discard(), func() error { return nil }
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return logging.Discard(), func() error { return nil }
	}

	return logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: f}), f.Close
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog := newLogger(cfg)
	defer closeLog()

	slog.SetDefault(log)

	store, err := backend.Open(cfg, log)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Cleanup(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	var client assistant.Client
	if cfg.AssistantEnabled() {
		gc, err := gemini.New(context.Background(), gemini.Config{
			APIKey:      cfg.Assistant.APIKey,
			Model:       cfg.Assistant.Model,
			Temperature: cfg.Assistant.Temperature,
		})
		if err != nil {
			return err
		}

		client = gc
	}

	m := newModel(
		auth.NewDirectory(store.Store, log),
		session.NewManager(store.Store, client, log, cfg.Assistant.Timeout),
		matching.NewService(matchingStore.New(store.Store)),
		importer.NewService(),
	)

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()

	return err
}

func main() {
	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
