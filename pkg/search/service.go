package search

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/filesystem"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

type Service struct {
	root *sandbox.Root
}

func NewService(root *sandbox.Root) *Service {
	return &Service{root}
}

// SearchOptions has the same structure as SearchQuery to allow direct type conversion.
type SearchOptions SearchQuery

// Search walks the directory at opts.Path and returns every descendant whose
// name contains opts.Term, ignoring case. Subdirectories that can't be read are
// skipped; only a failure to read the search directory itself aborts the
// search. Symlinked directories are reported but never descended into.
func (svc *Service) Search(ctx context.Context, opts SearchOptions) ([]filesystem.Entry, error) {
	log := logger.FromContext(ctx)

	results := []filesystem.Entry{}

	term := NormalizeTerm(opts.Term)
	if term == "" {
		return results, nil
	}

	absDir, err := svc.root.ResolveDirectory(ctx, opts.Path)
	if err != nil {
		return nil, err
	}

	skipped := 0
	err = filepath.WalkDir(absDir, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		if walkErr != nil {
			if p == absDir {
				return fserr.IO(walkErr, "Unable to read directory.")
			}
			skipped++
			log.Warn("skipping inaccessible entry", logger.Data{"path": svc.root.Rel(p), "error": walkErr.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if p == absDir || !Matches(d.Name(), term) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Removed between the directory read and now.
			log.Warn("skipping unreadable entry", logger.Data{"path": svc.root.Rel(p), "error": err.Error()})
			return nil
		}
		results = append(results, filesystem.NewEntry(svc.root, p, info))
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("search finished", logger.Data{
		"path":    svc.root.Rel(absDir),
		"matches": len(results),
		"skipped": skipped,
	})

	return results, nil
}
