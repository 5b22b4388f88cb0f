// Package sandbox binds untrusted, root-relative paths to absolute paths that
// are guaranteed to stay inside a single configured root directory.
package sandbox

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"unicode"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/metrics"
)

// Root is the immutable root context shared by every core operation. It's
// built once at startup and never mutated, so it's safe for concurrent use.
type Root struct {
	path          string
	prefix        string
	caseSensitive bool
}

type Option func(*Root)

// WithCaseSensitive compares paths byte-for-byte during containment checks
// even when the filesystem holding the root folds case.
func WithCaseSensitive() Option {
	return func(r *Root) {
		r.caseSensitive = true
	}
}

// NewRoot creates the root directory if it doesn't exist yet and returns its
// canonical form (absolute, symlinks evaluated). Containment checks fold case
// only when the filesystem holding the root does.
func NewRoot(dir string, opts ...Option) (*Root, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("root path is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create root directory: %s", abs)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root path is not a directory: %s", canonical)
	}

	r := &Root{path: canonical, prefix: canonical, caseSensitive: detectCaseSensitive(canonical, info)}
	if !strings.HasSuffix(canonical, string(filepath.Separator)) {
		r.prefix = canonical + string(filepath.Separator)
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Path returns the canonical absolute root.
func (r *Root) Path() string {
	return r.path
}

// CaseSensitive reports whether containment checks compare paths exactly.
func (r *Root) CaseSensitive() bool {
	return r.caseSensitive
}

// Normalize turns a caller-supplied relative path into its canonical
// slash-separated form. Empty and "." both mean the root and normalize to "".
// Parent segments are kept so that Resolve can reject them; nothing is ever
// clamped to the root here.
func Normalize(rel string) string {
	// Clients on any platform may send either separator.
	rel = strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return ""
	}
	rel = path.Clean(rel)
	if rel == "." {
		return ""
	}
	return rel
}

// Resolve binds rel to an absolute path inside the root. Escapes are rejected
// before anything is checked for existence, so a path that escapes the root
// fails the same way whether or not its target exists.
func (r *Root) Resolve(ctx context.Context, rel string) (string, error) {
	normalized := Normalize(rel)

	candidate := filepath.Join(r.path, filepath.FromSlash(normalized))
	if !r.Contains(candidate) {
		return "", r.escape(ctx, rel)
	}

	canonical, err := evalExisting(candidate)
	if err != nil {
		return "", fserr.IO(err, "Unable to resolve path.")
	}
	// A symlink somewhere along the way may point outside of the root.
	if !r.Contains(canonical) {
		return "", r.escape(ctx, rel)
	}

	return canonical, nil
}

// ResolveEntry is like Resolve except that a symlink in the final component is
// not followed, so the result names the link itself. Mutations use it so that
// deleting or moving a link never touches its target.
func (r *Root) ResolveEntry(ctx context.Context, rel string) (string, error) {
	normalized := Normalize(rel)
	if normalized == "" {
		return r.path, nil
	}

	candidate := filepath.Join(r.path, filepath.FromSlash(normalized))
	if !r.Contains(candidate) {
		return "", r.escape(ctx, rel)
	}

	parent, err := evalExisting(filepath.Dir(candidate))
	if err != nil {
		return "", fserr.IO(err, "Unable to resolve path.")
	}
	abs := filepath.Join(parent, filepath.Base(candidate))
	if !r.Contains(abs) {
		return "", r.escape(ctx, rel)
	}

	return abs, nil
}

// ResolveDirectory is Resolve plus a check that the result is an existing
// directory.
func (r *Root) ResolveDirectory(ctx context.Context, rel string) (string, error) {
	abs, info, err := r.Stat(ctx, rel, "Directory")
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fserr.NotFound("Directory")
	}
	return abs, nil
}

// Stat resolves rel and returns the file info of the result. A missing entry
// is reported as NotFound for the given resource name.
func (r *Root) Stat(ctx context.Context, rel, resource string) (string, fs.FileInfo, error) {
	abs, err := r.Resolve(ctx, rel)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if IsNotExist(err) {
			return "", nil, fserr.NotFound(resource)
		}
		return "", nil, fserr.IO(err, "Unable to read "+strings.ToLower(resource)+".")
	}

	return abs, info, nil
}

// Lstat is Stat for ResolveEntry: a trailing symlink is described rather than
// followed.
func (r *Root) Lstat(ctx context.Context, rel, resource string) (string, fs.FileInfo, error) {
	abs, err := r.ResolveEntry(ctx, rel)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if IsNotExist(err) {
			return "", nil, fserr.NotFound(resource)
		}
		return "", nil, fserr.IO(err, "Unable to read "+strings.ToLower(resource)+".")
	}

	return abs, info, nil
}

// Contains reports whether abs is the root or lies below it.
func (r *Root) Contains(abs string) bool {
	if r.caseSensitive {
		return abs == r.path || strings.HasPrefix(abs, r.prefix)
	}
	return strings.EqualFold(abs, r.path) || hasPrefixFold(abs, r.prefix)
}

// Same reports whether a and b name the same path under the root's comparison
// rules.
func (r *Root) Same(a, b string) bool {
	if r.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// IsWithin reports whether p is ancestor or lies below it.
func (r *Root) IsWithin(p, ancestor string) bool {
	prefix := strings.TrimSuffix(ancestor, string(filepath.Separator)) + string(filepath.Separator)
	if r.caseSensitive {
		return p == ancestor || strings.HasPrefix(p, prefix)
	}
	return strings.EqualFold(p, ancestor) || hasPrefixFold(p, prefix)
}

// Rel returns the slash-separated path of abs relative to the root, or "" for
// the root itself. abs must satisfy Contains.
func (r *Root) Rel(abs string) string {
	if r.Same(abs, r.path) || len(abs) < len(r.prefix) {
		return ""
	}
	return filepath.ToSlash(abs[len(r.prefix):])
}

func (r *Root) escape(ctx context.Context, rel string) error {
	logger.FromContext(ctx).Warn("path escape attempt rejected", logger.Data{"path": rel})
	metrics.RecordPathEscape()
	return fserr.PathEscape()
}

// IsNotExist reports whether err means the path doesn't exist, including the
// case where a parent component is a regular file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// detectCaseSensitive looks dir up under a case-swapped name. When the name has
// no letters a temporary file inside dir is used instead. Anything
// inconclusive counts as case-sensitive.
func detectCaseSensitive(dir string, info fs.FileInfo) bool {
	base := filepath.Base(dir)
	if swapped := swapCase(base); swapped != base {
		return !sameFile(info, filepath.Join(filepath.Dir(dir), swapped))
	}

	f, err := os.CreateTemp(dir, ".filedock-case-")
	if err != nil {
		return true
	}
	name := f.Name()
	_ = f.Close()
	defer os.Remove(name)

	created, err := os.Stat(name)
	if err != nil {
		return true
	}
	return !sameFile(created, filepath.Join(dir, swapCase(filepath.Base(name))))
}

func sameFile(info fs.FileInfo, other string) bool {
	otherInfo, err := os.Stat(other)
	return err == nil && os.SameFile(info, otherInfo)
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsUpper(r) {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// evalExisting evaluates symlinks on the longest existing ancestor of p and
// appends the remaining (not yet existing) components unchanged.
func evalExisting(p string) (string, error) {
	var missing []string
	current := p
	for {
		canonical, err := filepath.EvalSymlinks(current)
		if err == nil {
			parts := make([]string, 0, len(missing)+1)
			parts = append(parts, canonical)
			for i := len(missing) - 1; i >= 0; i-- {
				parts = append(parts, missing[i])
			}
			return filepath.Join(parts...), nil
		}
		if !IsNotExist(err) {
			return "", errors.WithStack(err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return p, nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
