package fileutils

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
)

// CopyFile copies a regular file from src to dst, keeping its permissions.
// dst must not exist yet; the caller is expected to have picked a free name.
// A partially written destination is removed if the copy fails.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer sourceFile.Close()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return errors.WithStack(err)
	}

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, sourceInfo.Mode().Perm())
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = io.Copy(destFile, sourceFile)
	if err == nil {
		// The umask may have stripped bits from the mode passed to OpenFile.
		err = destFile.Chmod(sourceInfo.Mode().Perm())
	}
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return errors.WithStack(err)
	}

	return nil
}

// CopyTree copies src to dst. Directories are copied recursively: dst is
// created, then every regular file, then every subdirectory. Symlinks are
// recreated as symlinks and never followed.
//
// The copy isn't transactional. If it fails partway through, whatever was
// already copied stays in place and the error is returned.
func CopyTree(ctx context.Context, src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.WithStack(err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(src, dst)
	case !info.IsDir():
		return CopyFile(src, dst)
	}

	if err := os.Mkdir(dst, info.Mode().Perm()); err != nil {
		return errors.WithStack(err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.WithStack(err)
	}

	var dirs []os.DirEntry
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		if entry.IsDir() {
			dirs = append(dirs, entry)
			continue
		}
		if err := CopyTree(ctx, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	for _, entry := range dirs {
		if err := CopyTree(ctx, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Symlink(target, dst))
}

// Move renames src to dst. When the rename fails because the two paths live
// on different filesystems, it falls back to copying and then removing the
// source, which is not atomic: a failure during the removal leaves both
// copies behind.
func Move(ctx context.Context, src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.WithStack(err)
	}

	if err := CopyTree(ctx, src, dst); err != nil {
		// Nothing has been removed from the source yet, so drop the partial copy.
		os.RemoveAll(dst)
		return err
	}

	return errors.WithStack(os.RemoveAll(src))
}

// IsDirEmpty reports whether the directory at p has no entries.
func IsDirEmpty(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, errors.WithStack(err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, errors.WithStack(err)
	}
	return false, nil
}
