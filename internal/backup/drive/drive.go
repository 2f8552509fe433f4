// Package drive keeps the backup as a file in a Google Drive folder.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/moneybox/internal/backup"
)

const fileName = "moneybox-backup.db"

type Remote struct {
	svc      *drive.Service
	folderID string
}

// New authenticates with a service account. credentialsJSON takes precedence
// over credentialsFile.
func New(ctx context.Context, folderID, credentialsFile, credentialsJSON string) (*Remote, error) {
	creds, err := loadCredentials(credentialsFile, credentialsJSON)
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Remote{svc: svc, folderID: folderID}, nil
}

func loadCredentials(file, inline string) ([]byte, error) {
	inline = strings.TrimSpace(inline)
	file = strings.TrimSpace(file)

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		creds, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading service account file: %w", err)
		}

		return creds, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (r *Remote) find(ctx context.Context) (*drive.File, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", fileName, r.folderID)

	list, err := r.svc.Files.List().
		Q(q).
		Fields("files(id, name, modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing drive files: %w", err)
	}

	if len(list.Files) == 0 {
		return nil, backup.ErrNoBackup
	}

	return list.Files[0], nil
}

func (r *Remote) ModifiedAt(ctx context.Context) (time.Time, error) {
	f, err := r.find(ctx)
	if err != nil {
		return time.Time{}, err
	}

	at, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing drive modified time %q: %w", f.ModifiedTime, err)
	}

	return at.UTC(), nil
}

func (r *Remote) Upload(ctx context.Context, src io.Reader) error {
	existing, err := r.find(ctx)
	if err != nil && !errors.Is(err, backup.ErrNoBackup) {
		return err
	}

	if existing != nil {
		if _, err := r.svc.Files.Update(existing.Id, &drive.File{}).Media(src).Context(ctx).Do(); err != nil {
			return fmt.Errorf("updating drive file: %w", err)
		}

		slog.DebugContext(ctx, "drive backup updated", "file_id", existing.Id)

		return nil
	}

	created, err := r.svc.Files.Create(&drive.File{
		Name:    fileName,
		Parents: []string{r.folderID},
	}).Media(src).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating drive file: %w", err)
	}

	slog.DebugContext(ctx, "drive backup created", "file_id", created.Id)

	return nil
}

func (r *Remote) Download(ctx context.Context, dst io.Writer) error {
	f, err := r.find(ctx)
	if err != nil {
		return err
	}

	resp, err := r.svc.Files.Get(f.Id).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("downloading drive file: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("reading drive file: %w", err)
	}

	return nil
}
