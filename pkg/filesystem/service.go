package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/mimetypes"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

type Service struct {
	root *sandbox.Root
}

func NewService(root *sandbox.Root) *Service {
	return &Service{root: root}
}

// BrowseOptions has the same structure as BrowseQuery to allow direct type conversion.
type BrowseOptions BrowseQuery

// File describes a regular file that's about to be downloaded.
type File struct {
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// NewEntry describes the entry at abs, which must lie inside root.
func NewEntry(root *sandbox.Root, abs string, info fs.FileInfo) Entry {
	entry := Entry{
		Name:       info.Name(),
		Path:       root.Rel(abs),
		IsDir:      info.IsDir(),
		ModifiedAt: info.ModTime(),
	}
	if !entry.IsDir {
		entry.Size = info.Size()
	}
	return entry
}

func (s *Service) Browse(ctx context.Context, opts BrowseOptions) (*BrowseResponse, error) {
	absPath, err := s.root.ResolveDirectory(ctx, opts.Path)
	if err != nil {
		return nil, err
	}

	entries, err := s.ListChildren(ctx, absPath)
	if err != nil {
		return nil, err
	}

	current := s.root.Rel(absPath)

	// Calculate parent path.
	var parentPath *string
	if current != "" {
		parent := path.Dir(current)
		if parent == "." {
			parent = ""
		}
		parentPath = pointerutil.String(parent)
	}

	return &BrowseResponse{
		CurrentPath: current,
		ParentPath:  parentPath,
		Entries:     entries,
		Totals:      ComputeTotals(entries),
	}, nil
}

// ListChildren returns the direct children of absDir: directories first, then
// files, each group ordered by name ignoring case.
func (s *Service) ListChildren(ctx context.Context, absDir string) ([]Entry, error) {
	log := logger.FromContext(ctx)

	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		if sandbox.IsNotExist(err) {
			return nil, fserr.NotFound("Directory")
		}
		return nil, fserr.IO(err, "Unable to read directory.")
	}

	// Always return a slice so that it's serialized as [] rather than null.
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			// The entry was most likely removed after the directory was read.
			log.Warn("skipping unreadable entry", logger.Data{"name": de.Name(), "error": err.Error()})
			continue
		}
		entries = append(entries, NewEntry(s.root, filepath.Join(absDir, de.Name()), info))
	}

	SortEntries(entries)

	return entries, nil
}

// SortEntries orders directories before files and names case-insensitively
// within each group. Names are folded to upper case before comparing, so
// "zeta" sorts before "_under". Names that only differ by case fall back to a
// byte-wise comparison so that the order is always deterministic.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		// Directories come before files.
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		a, b := strings.ToUpper(entries[i].Name), strings.ToUpper(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Name < entries[j].Name
	})
}

// ComputeTotals sums the sizes of the files and counts files and directories
// among entries. It doesn't descend into directories.
func ComputeTotals(entries []Entry) Totals {
	var totals Totals
	for _, entry := range entries {
		if entry.IsDir {
			totals.DirectoryCount++
			continue
		}
		totals.FileCount++
		totals.TotalBytes += entry.Size
	}
	return totals
}

// RetrieveFile resolves rel for download. Directories are reported as not
// found since only regular files can be downloaded.
func (s *Service) RetrieveFile(ctx context.Context, rel string) (*File, error) {
	absPath, info, err := s.root.Stat(ctx, rel, "File")
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fserr.NotFound("File")
	}

	return &File{
		Path:        absPath,
		Name:        info.Name(),
		Size:        info.Size(),
		ContentType: mimetypes.Detect(absPath),
	}, nil
}
