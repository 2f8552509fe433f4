// Package backup copies the sqlite database to and from a remote store.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/database"
)

var (
	ErrNoBackup = errors.New("no backup found")
	ErrDisabled = errors.New("backups are not configured")
	// ErrDatabaseClosed marks restore failures that happened after the
	// database handle was closed. The file on disk is still the old
	// database and has to be opened again.
	ErrDatabaseClosed = errors.New("database closed for restore")
)

// Remote stores a single copy of the database.
type Remote interface {
	// ModifiedAt returns ErrNoBackup when nothing was uploaded yet.
	ModifiedAt(ctx context.Context) (time.Time, error)
	Upload(ctx context.Context, r io.Reader) error
	Download(ctx context.Context, w io.Writer) error
}

// Settings exposes when the local database last changed.
type Settings interface {
	LastDatabaseUpdate(ctx context.Context) (time.Time, error)
}

// DB is the open database being backed up.
type DB interface {
	database.Querier
	io.Closer
}

type Manager struct {
	db       DB
	dbPath   string
	remote   Remote
	settings Settings
}

func NewManager(db DB, dbPath string, remote Remote, settings Settings) *Manager {
	return &Manager{db: db, dbPath: dbPath, remote: remote, settings: settings}
}

// Status describes both sides of the backup.
type Status struct {
	LocalUpdatedAt  time.Time
	RemoteUpdatedAt time.Time // zero when no backup exists
}

func (s Status) LocalIsNewer() bool  { return s.LocalUpdatedAt.After(s.RemoteUpdatedAt) }
func (s Status) RemoteIsNewer() bool { return s.RemoteUpdatedAt.After(s.LocalUpdatedAt) }

func (m *Manager) Status(ctx context.Context) (Status, error) {
	if m == nil {
		return Status{}, ErrDisabled
	}

	local, err := m.settings.LastDatabaseUpdate(ctx)
	if err != nil {
		return Status{}, err
	}

	remote, err := m.remote.ModifiedAt(ctx)
	if err != nil && !errors.Is(err, ErrNoBackup) {
		return Status{}, fmt.Errorf("reading backup date: %w", err)
	}

	return Status{LocalUpdatedAt: local, RemoteUpdatedAt: remote}, nil
}

// UploadBackupIfNewer uploads a snapshot when the database changed after the
// remote copy was written. It reports whether an upload happened.
func (m *Manager) UploadBackupIfNewer(ctx context.Context) (bool, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return false, err
	}

	if !status.LocalIsNewer() {
		slog.DebugContext(ctx, "backup is up to date", "local", status.LocalUpdatedAt, "remote", status.RemoteUpdatedAt)
		return false, nil
	}

	if err := m.upload(ctx); err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "backup uploaded", "local_updated_at", status.LocalUpdatedAt)

	return true, nil
}

func (m *Manager) upload(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "moneybox-backup-*")
	if err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if err := database.Snapshot(ctx, m.db, path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	if err := m.remote.Upload(ctx, f); err != nil {
		return fmt.Errorf("uploading backup: %w", err)
	}

	return nil
}

// RestoreBackupIfNewer replaces the local database with the remote copy when
// that copy is newer. On restore the database handle given to NewManager is
// closed and the caller must open the file again; the same holds for errors
// wrapping ErrDatabaseClosed.
func (m *Manager) RestoreBackupIfNewer(ctx context.Context) (bool, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return false, err
	}

	if !status.RemoteIsNewer() {
		return false, nil
	}

	staged := m.dbPath + ".restore"
	if err := m.download(ctx, staged); err != nil {
		os.Remove(staged)
		return false, err
	}

	if err := m.replace(staged); err != nil {
		os.Remove(staged)
		return false, fmt.Errorf("%w: %w", ErrDatabaseClosed, err)
	}

	slog.InfoContext(ctx, "backup restored", "remote_updated_at", status.RemoteUpdatedAt)

	return true, nil
}

// replace closes the database and moves staged over its file.
func (m *Manager) replace(staged string) error {
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s file: %w", suffix, err)
		}
	}

	if err := os.Rename(staged, m.dbPath); err != nil {
		return fmt.Errorf("replacing database: %w", err)
	}

	return nil
}

func (m *Manager) download(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating restore file: %w", err)
	}

	if err := m.remote.Download(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("downloading backup: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("writing restore file: %w", err)
	}

	return nil
}
