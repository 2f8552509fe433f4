// Package local keeps the backup in a directory, e.g. a synced folder.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneybox/internal/backup"
)

const fileName = "moneybox-backup.db"

type Remote struct {
	dir string
}

func New(dir string) *Remote {
	return &Remote{dir: dir}
}

func (r *Remote) path() string {
	return filepath.Join(r.dir, fileName)
}

func (r *Remote) ModifiedAt(_ context.Context) (time.Time, error) {
	info, err := os.Stat(r.path())
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, backup.ErrNoBackup
		}

		return time.Time{}, fmt.Errorf("stat backup: %w", err)
	}

	return info.ModTime().UTC(), nil
}

// Upload writes to a temporary file first so a failed copy never replaces
// the previous backup.
func (r *Remote) Upload(_ context.Context, src io.Reader) error {
	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	tmp := filepath.Join(r.dir, "."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(tmp)

		return fmt.Errorf("writing backup file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing backup file: %w", err)
	}

	if err := os.Rename(tmp, r.path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing backup file: %w", err)
	}

	return nil
}

func (r *Remote) Download(_ context.Context, dst io.Writer) error {
	f, err := os.Open(r.path())
	if err != nil {
		if os.IsNotExist(err) {
			return backup.ErrNoBackup
		}

		return fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	return nil
}
