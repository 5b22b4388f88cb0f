package items

import (
	"context"
	"os"
	"path/filepath"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fileutils"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

// Service mutates the tree below a root. Every operation validates its
// arguments and resolves its paths before touching the filesystem. Recursive
// operations aren't transactional: a failure partway through leaves whatever
// was already done in place.
type Service struct {
	root *sandbox.Root
}

func NewService(root *sandbox.Root) *Service {
	return &Service{root}
}

type DeleteOptions DeleteQuery
type CopyOptions CopyPayload
type MoveOptions MovePayload
type CreateFolderOptions CreateFolderPayload

// Delete permanently removes a file or directory. A non-empty directory is
// only removed when opts.Recursive is set.
func (svc *Service) Delete(ctx context.Context, opts DeleteOptions) error {
	log := logger.FromContext(ctx)

	abs, info, err := svc.root.Lstat(ctx, opts.Path, "Item")
	if err != nil {
		return err
	}
	if svc.isRoot(abs) {
		return fserr.Validation("The root directory can't be deleted.")
	}

	if info.IsDir() {
		empty, err := fileutils.IsDirEmpty(abs)
		if err != nil {
			return fserr.IO(err, "Unable to read directory.")
		}
		if !empty && !opts.Recursive {
			return fserr.Conflict("Directory is not empty.")
		}
		if err := os.RemoveAll(abs); err != nil {
			return fserr.IO(err, "Unable to delete directory.")
		}
	} else if err := os.Remove(abs); err != nil {
		return fserr.IO(err, "Unable to delete file.")
	}

	log.Info("deleted item", logger.Data{
		"path":      svc.root.Rel(abs),
		"is_dir":    info.IsDir(),
		"recursive": opts.Recursive,
	})

	return nil
}

// Copy places a copy of opts.Source inside the directory opts.Destination and
// returns its path. A name that's already taken gets a " (copy N)" suffix.
// Only the top-level name is checked for collisions; everything below it is
// copied into the freshly created tree as is.
func (svc *Service) Copy(ctx context.Context, opts CopyOptions) (string, error) {
	log := logger.FromContext(ctx)

	src, info, dstDir, err := svc.resolvePair(ctx, opts.Source, opts.Destination, "copied")
	if err != nil {
		return "", err
	}
	if info.IsDir() && svc.root.IsWithin(dstDir, src) {
		return "", fserr.Validation("A directory can't be copied into itself.")
	}

	target, err := fileutils.UniqueCopyPath(filepath.Join(dstDir, filepath.Base(src)), info.IsDir())
	if err != nil {
		return "", fserr.IO(err, "Unable to copy item.")
	}
	if !svc.root.Contains(target) {
		return "", fserr.PathEscape()
	}

	if err := fileutils.CopyTree(ctx, src, target); err != nil {
		return "", fserr.IO(err, "Unable to copy item.")
	}

	result := svc.root.Rel(target)
	log.Info("copied item", logger.Data{"source": svc.root.Rel(src), "destination": result})

	return result, nil
}

// Move relocates opts.Source into the directory opts.Destination and returns
// its new path. A name that's already taken gets a " (N)" suffix.
func (svc *Service) Move(ctx context.Context, opts MoveOptions) (string, error) {
	log := logger.FromContext(ctx)

	src, info, dstDir, err := svc.resolvePair(ctx, opts.Source, opts.Destination, "moved")
	if err != nil {
		return "", err
	}

	target := filepath.Join(dstDir, filepath.Base(src))
	if svc.root.Same(src, target) || svc.root.Same(src, dstDir) {
		return "", fserr.Conflict("Source and destination are the same.")
	}
	if info.IsDir() && svc.root.IsWithin(dstDir, src) {
		return "", fserr.Validation("A directory can't be moved into itself.")
	}

	target, err = fileutils.UniquePath(target, info.IsDir())
	if err != nil {
		return "", fserr.IO(err, "Unable to move item.")
	}
	if !svc.root.Contains(target) {
		return "", fserr.PathEscape()
	}

	if err := fileutils.Move(ctx, src, target); err != nil {
		return "", fserr.IO(err, "Unable to move item.")
	}

	result := svc.root.Rel(target)
	log.Info("moved item", logger.Data{"source": svc.root.Rel(src), "destination": result})

	return result, nil
}

// CreateFolder creates a directory named opts.Name inside opts.Path. Any
// directory components in the name are dropped.
func (svc *Service) CreateFolder(ctx context.Context, opts CreateFolderOptions) (string, error) {
	log := logger.FromContext(ctx)

	name := fileutils.SanitizeBaseName(opts.Name)
	if name == "" {
		return "", fserr.Validation("Folder name is required.")
	}

	parent, err := svc.root.ResolveDirectory(ctx, opts.Path)
	if err != nil {
		return "", err
	}

	target := filepath.Join(parent, name)
	if !svc.root.Contains(target) {
		return "", fserr.PathEscape()
	}

	if err := os.Mkdir(target, 0755); err != nil {
		if os.IsExist(err) {
			return "", fserr.Conflict("An item with that name already exists.")
		}
		return "", fserr.IO(err, "Unable to create folder.")
	}

	result := svc.root.Rel(target)
	log.Info("created folder", logger.Data{"path": result})

	return result, nil
}

// resolvePair resolves the source item and destination directory shared by
// copy and move. verb is only used in the error message for the root.
func (svc *Service) resolvePair(ctx context.Context, source, destination, verb string) (string, os.FileInfo, string, error) {
	src, info, err := svc.root.Lstat(ctx, source, "Source")
	if err != nil {
		return "", nil, "", err
	}
	if svc.isRoot(src) {
		return "", nil, "", fserr.Validation("The root directory can't be " + verb + ".")
	}

	dstDir, err := svc.root.ResolveDirectory(ctx, destination)
	if err != nil {
		return "", nil, "", err
	}

	return src, info, dstDir, nil
}

func (svc *Service) isRoot(abs string) bool {
	return svc.root.Same(abs, svc.root.Path())
}
