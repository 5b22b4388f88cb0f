package fileutils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// UniquePath returns p if nothing exists there yet, otherwise the first free
// sibling named "<name> (N)<ext>" for files or "<name> (N)" for directories,
// with N counting up from 1.
func UniquePath(p string, isDir bool) (string, error) {
	return uniquePath(p, isDir, "(%d)")
}

// UniqueCopyPath is like UniquePath but labels the suffix as a copy:
// "<name> (copy N)<ext>" for files and "<name> (copy N)" for directories.
func UniqueCopyPath(p string, isDir bool) (string, error) {
	return uniquePath(p, isDir, "(copy %d)")
}

func uniquePath(p string, isDir bool, label string) (string, error) {
	exists, err := Exists(p)
	if err != nil || !exists {
		return p, err
	}

	dir := filepath.Dir(p)
	base := filepath.Base(p)
	ext := ""
	if !isDir {
		ext = filepath.Ext(base)
	}
	nameWithoutExt := base[:len(base)-len(ext)]

	for i := 1; ; i++ {
		newName := fmt.Sprintf("%s "+label+"%s", nameWithoutExt, i, ext)
		newPath := filepath.Join(dir, newName)
		exists, err := Exists(newPath)
		if err != nil {
			return "", err
		}
		if !exists {
			return newPath, nil
		}
	}
}

// Exists reports whether anything (including a dangling symlink) exists at p.
func Exists(p string) (bool, error) {
	_, err := os.Lstat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.WithStack(err)
}

// SanitizeBaseName reduces a client-supplied file name to its last path
// component. Both separators are stripped since clients on any platform may
// send either. The result is empty when nothing usable remains.
func SanitizeBaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimRight(name, "/")
	name = path.Base(name)
	name = strings.TrimSpace(name)

	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}
