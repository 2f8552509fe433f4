package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/moneybox/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/moneybox/internal/app"
	"github.com/MrJamesThe3rd/moneybox/internal/backup"
	"github.com/MrJamesThe3rd/moneybox/internal/config"
	"github.com/MrJamesThe3rd/moneybox/internal/logging"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

const startupTimeout = 2 * time.Minute

type View int

const (
	ViewMenu       View = 0
	ViewAccounts   View = 1
	ViewPayments   View = 2
	ViewRecurring  View = 3
	ViewCategories View = 4
	ViewImport     View = 5
	ViewBackup     View = 6
)

type model struct {
	app    *app.App
	dialog *view.Dialog

	currentView View
	popup       view.DialogModel
	size        tea.WindowSizeMsg
	notice      string

	accountsView   view.AccountsModel
	paymentsView   view.PaymentsModel
	recurringView  view.RecurringModel
	categoriesView view.CategoriesModel
	importView     view.ImportModel
	backupView     view.BackupModel
}

func newModel(a *app.App, dialog *view.Dialog, notice string) model {
	m := model{app: a, dialog: dialog, currentView: ViewMenu, notice: notice}
	m.rebuild()

	return m
}

// rebuild binds every screen to the current services of the app.
func (m *model) rebuild() {
	a, vmSvc := m.app, m.vmServices()

	m.accountsView = view.NewAccountsModel(a.Accounts, vmSvc)
	m.paymentsView = view.NewPaymentsModel(a.Payments, a.Accounts, a.Categories, vmSvc)
	m.recurringView = view.NewRecurringModel(a.Payments, a.Processor, a.Money, m.dialog, a.Settings)
	m.categoriesView = view.NewCategoriesModel(a.Categories, a.Settings)
	m.importView = view.NewImportModel(a.Accounts, a.Importer, a.Money, a.Settings)
	m.backupView = view.NewBackupModel(a)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case view.DialogMsg:
		m.popup = m.popup.Open(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.popup.Active() {
			m.popup = m.popup.Update(msg)
			return m, nil
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

	case tea.WindowSizeMsg:
		m.size = msg

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	case view.OpenPaymentsMsg:
		m.paymentsView = view.NewPaymentsModel(m.app.Payments, m.app.Accounts, m.app.Categories, m.vmServices()).
			ForAccount(msg.AccountID)

		return m.open(ViewPayments)

	case view.RestoredMsg:
		m.rebuild()
		return m.open(ViewBackup)
	}

	return m.forward(msg)
}

func (m model) vmServices() viewmodel.Services {
	return viewmodel.Services{
		Payments: m.app.Payments,
		Accounts: m.app.Accounts,
		Settings: m.app.Settings,
		Dialog:   m.dialog,
		Money:    m.app.Money,
	}
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.open(ViewAccounts)
	case "2":
		m.paymentsView = view.NewPaymentsModel(m.app.Payments, m.app.Accounts, m.app.Categories, m.vmServices())
		return m.open(ViewPayments)
	case "3":
		return m.open(ViewRecurring)
	case "4":
		return m.open(ViewCategories)
	case "5":
		return m.open(ViewImport)
	case "6":
		return m.open(ViewBackup)
	}

	return m, nil
}

// open switches to v, replays the last window size and starts its loading.
func (m model) open(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.notice = ""

	var init tea.Cmd

	switch v {
	case ViewAccounts:
		init = m.accountsView.Init()
	case ViewPayments:
		init = m.paymentsView.Init()
	case ViewRecurring:
		init = m.recurringView.Init()
	case ViewCategories:
		init = m.categoriesView.Init()
	case ViewImport:
		init = m.importView.Init()
	case ViewBackup:
		init = m.backupView.Init()
	}

	if m.size.Width == 0 {
		return m, init
	}

	next, cmd := m.forward(m.size)

	return next, tea.Batch(init, cmd)
}

func (m model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewPayments:
		var newModel tea.Model
		newModel, cmd = m.paymentsView.Update(msg)
		m.paymentsView = newModel.(view.PaymentsModel)
	case ViewRecurring:
		var newModel tea.Model
		newModel, cmd = m.recurringView.Update(msg)
		m.recurringView = newModel.(view.RecurringModel)
	case ViewCategories:
		var newModel tea.Model
		newModel, cmd = m.categoriesView.Update(msg)
		m.categoriesView = newModel.(view.CategoriesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	if m.popup.Active() {
		return lipgloss.Place(max(m.size.Width, 60), max(m.size.Height, 12), lipgloss.Center, lipgloss.Center, m.popup.View())
	}

	return m.screen()
}

func (m model) screen() string {
	switch m.currentView {
	case ViewMenu:
		menu := m.app.Config.App.Name + "\n\n" +
			"1. Accounts\n" +
			"2. Payments\n" +
			"3. Recurring Payments\n" +
			"4. Categories\n" +
			"5. Import Statement\n" +
			"6. Backup\n\n" +
			"q. Quit"

		if m.notice != "" {
			menu += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.notice)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewAccounts:
		return m.accountsView.View()
	case ViewPayments:
		return m.paymentsView.View()
	case ViewRecurring:
		return m.recurringView.View()
	case ViewCategories:
		return m.categoriesView.View()
	case ViewImport:
		return m.importView.View()
	case ViewBackup:
		return m.backupView.View()
	}

	return "Unknown View"
}

// restoreOnStartup pulls a newer backup before any screen reads the database.
func restoreOnStartup(a *app.App) string {
	if a.Backup == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	restored, err := a.RestoreBackup(ctx)
	switch {
	case errors.Is(err, backup.ErrDisabled):
		return ""
	case err != nil:
		slog.Warn("failed to restore backup", "error", err)
		return "Could not check the backup, see the log for details."
	case restored:
		return "Database restored from a newer backup."
	}

	return ""
}

// uploadOnExit keeps the backup current when no worker is listening for
// change events.
func uploadOnExit(a *app.App) {
	if a.Backup == nil || a.Events != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if _, err := a.Backup.UploadBackupIfNewer(ctx); err != nil {
		slog.Error("failed to upload backup", "error", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.App.LogFile), 0o755); err != nil {
		return err
	}

	logFile, err := logging.SetupFile(cfg.App.LogFile, cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// The drive client keeps this context for token refreshes.
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	notice := restoreOnStartup(a)

	dialog := view.NewDialog()
	p := tea.NewProgram(newModel(a, dialog, notice), tea.WithAltScreen())
	dialog.Attach(p)

	if _, err := p.Run(); err != nil {
		return err
	}

	uploadOnExit(a)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
