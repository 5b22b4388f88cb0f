package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fileutils"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/metrics"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

type Service struct {
	root *sandbox.Root
}

func NewService(root *sandbox.Root) *Service {
	return &Service{root}
}

type SaveOptions struct {
	// Directory is the root-relative directory to save into. It must exist.
	Directory string
	// FileName is the client-supplied name. Only its last component is used.
	FileName string
	Content  io.Reader
}

// Upload is one file of a batch. Open is called right before the file is
// saved and the returned reader is closed right after.
type Upload struct {
	FileName string
	Open     func() (io.ReadCloser, error)
}

// Save writes opts.Content to a new file in opts.Directory and returns its
// root-relative path. A name that's already taken gets a " (N)" suffix. If the
// copy fails, the partially written file is removed on a best-effort basis.
func (svc *Service) Save(ctx context.Context, opts SaveOptions) (string, error) {
	log := logger.FromContext(ctx)

	name := fileutils.SanitizeBaseName(opts.FileName)
	if name == "" {
		return "", fserr.Validation("File name is required.")
	}

	dir, err := svc.root.ResolveDirectory(ctx, opts.Directory)
	if err != nil {
		return "", err
	}

	target, err := fileutils.UniquePath(filepath.Join(dir, name), false)
	if err != nil {
		return "", fserr.IO(err, "Unable to save file.")
	}
	if !svc.root.Contains(target) {
		return "", fserr.PathEscape()
	}

	// O_EXCL makes a concurrent upload that picked the same name fail rather
	// than overwrite.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", fserr.Conflict("An item with that name was just created, try again.")
		}
		return "", fserr.IO(err, "Unable to save file.")
	}

	n, err := io.Copy(f, opts.Content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(target); rmErr != nil {
			log.Err(rmErr).Warn("unable to remove partial upload", logger.Data{"path": svc.root.Rel(target)})
		}
		return "", fserr.IO(errors.WithStack(err), "Unable to save file.")
	}

	metrics.RecordUploadedBytes(n)

	result := svc.root.Rel(target)
	log.Info("saved upload", logger.Data{"path": result, "size": n})

	return result, nil
}

// SaveAll saves uploads into directory one after the other, so that the names
// picked for colliding files follow the order of the batch. It stops at the
// first failure and returns the paths saved up to that point along with the
// error.
func (svc *Service) SaveAll(ctx context.Context, directory string, uploads []Upload) ([]string, error) {
	batchID, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	log := logger.FromContext(ctx).Root(logger.Data{"upload_batch_id": batchID.String()})
	ctx = log.WithContext(ctx)

	saved := make([]string, 0, len(uploads))
	for i, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return saved, errors.WithStack(err)
		}

		p, err := svc.saveOne(ctx, directory, upload)
		if err != nil {
			log.Err(err).Warn("upload batch stopped", logger.Data{"index": i, "saved": len(saved), "total": len(uploads)})
			return saved, err
		}
		saved = append(saved, p)
	}

	log.Info("upload batch finished", logger.Data{"count": len(saved)})

	return saved, nil
}

func (svc *Service) saveOne(ctx context.Context, directory string, upload Upload) (string, error) {
	rc, err := upload.Open()
	if err != nil {
		return "", fserr.IO(err, "Unable to read upload.")
	}
	defer rc.Close()

	return svc.Save(ctx, SaveOptions{
		Directory: directory,
		FileName:  upload.FileName,
		Content:   rc,
	})
}
