package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/app"
	"github.com/MrJamesThe3rd/moneybox/internal/backup"
)

const backupTimeout = 5 * time.Minute

// RestoredMsg is emitted after the database was replaced. Every screen holds
// services bound to the old connection and has to be rebuilt.
type RestoredMsg struct{}

type BackupModel struct {
	CommonModel
	app *app.App

	status  backup.Status
	loaded  bool
	busy    string
	message string
	err     error
}

func NewBackupModel(a *app.App) BackupModel {
	return BackupModel{app: a}
}

func (m BackupModel) Title() string { return "Backup" }

func (m BackupModel) ShortHelp() string {
	return "Esc: back | u: upload | r: restore | s: refresh"
}

func (m BackupModel) Init() tea.Cmd {
	return m.statusCmd()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case backupStatusMsg:
		m.err = msg.err
		m.status = msg.status
		m.loaded = msg.err == nil

		return m, nil

	case backupDoneMsg:
		m.busy = ""
		m.err = msg.err

		if msg.err == nil {
			m.message = msg.message
		}

		if msg.restored {
			return m, func() tea.Msg { return RestoredMsg{} }
		}

		return m, m.statusCmd()

	case tea.KeyMsg:
		if m.busy != "" {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "s":
			return m, m.statusCmd()
		case "u":
			m.busy = "Uploading..."
			return m, m.uploadCmd()
		case "r":
			m.busy = "Restoring..."
			return m, m.restoreCmd()
		}
	}

	return m, nil
}

func (m BackupModel) View() string {
	var body string

	switch {
	case errors.Is(m.err, backup.ErrDisabled):
		body = "Backups are not configured. Set BACKUP_PROVIDER to local or drive."
	case m.busy != "":
		body = m.busy
	case !m.loaded:
		body = statusLine("Reading backup status...", m.err)
	default:
		body = m.statusView()
		if line := statusLine(m.message, m.err); line != "" {
			body += "\n\n" + line
		}
	}

	return lipgloss.NewStyle().Padding(2).Render(
		titleStyle.Render(m.Title()) + "\n\n" + body + "\n\n" + faintStyle.Render(m.ShortHelp()),
	)
}

func (m BackupModel) statusView() string {
	remote := "none"
	if !m.status.RemoteUpdatedAt.IsZero() {
		remote = m.status.RemoteUpdatedAt.Local().Format(time.DateTime)
	}

	local := "never"
	if !m.status.LocalUpdatedAt.IsZero() {
		local = m.status.LocalUpdatedAt.Local().Format(time.DateTime)
	}

	state := okStyle.Render("Backup is up to date.")

	switch {
	case m.status.LocalIsNewer():
		state = activeStyle("Local changes are not backed up yet.")
	case m.status.RemoteIsNewer():
		state = activeStyle("The backup is newer than this database.")
	}

	return fmt.Sprintf("Last local change: %s\nLast backup:       %s\n\n%s", local, remote, state)
}

// Messages

type backupStatusMsg struct {
	status backup.Status
	err    error
}

type backupDoneMsg struct {
	message  string
	restored bool
	err      error
}

func (m BackupModel) statusCmd() tea.Cmd {
	a := m.app

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		status, err := a.Backup.Status(ctx)

		return backupStatusMsg{status: status, err: err}
	}
}

func (m BackupModel) uploadCmd() tea.Cmd {
	a := m.app

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		uploaded, err := a.Backup.UploadBackupIfNewer(ctx)
		if err != nil {
			return backupDoneMsg{err: err}
		}

		if !uploaded {
			return backupDoneMsg{message: "Nothing to upload."}
		}

		return backupDoneMsg{message: "Backup uploaded."}
	}
}

func (m BackupModel) restoreCmd() tea.Cmd {
	a := m.app

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		restored, err := a.RestoreBackup(ctx)
		if err != nil {
			return backupDoneMsg{restored: restored, err: err}
		}

		if !restored {
			return backupDoneMsg{message: "The backup is not newer than this database."}
		}

		return backupDoneMsg{message: "Database restored from backup.", restored: true}
	}
}
