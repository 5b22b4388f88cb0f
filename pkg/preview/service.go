package preview

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/mimetypes"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

const (
	// MaxFileBytes is the largest file of any kind that will be previewed.
	MaxFileBytes = 1 << 20
	// MaxTextChars is the number of characters of text returned before the
	// content is truncated.
	MaxTextChars = 10000
	// MaxImageBytes is the largest image that will be inlined.
	MaxImageBytes = 512000

	TruncationMarker = "\n\n... [truncated]"
)

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".json": true, ".xml": true, ".html": true,
	".css": true, ".js": true, ".ts": true, ".cs": true, ".java": true,
	".py": true, ".rb": true, ".php": true, ".cpp": true, ".h": true,
	".log": true, ".csv": true, ".yml": true, ".yaml": true, ".toml": true,
	".conf": true, ".config": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".bmp": true,
}

type Service struct {
	root *sandbox.Root
}

func NewService(root *sandbox.Root) *Service {
	return &Service{root}
}

// Preview classifies the file at rel by extension and returns its content in
// a form the client can render inline.
func (svc *Service) Preview(ctx context.Context, rel string) (*Result, error) {
	abs, info, err := svc.root.Stat(ctx, rel, "File")
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fserr.NotFound("File")
	}

	result := &Result{
		Name: info.Name(),
		Size: info.Size(),
	}

	if info.Size() > MaxFileBytes {
		result.Kind = KindError
		result.Message = "File is too large for preview (" + humanize.IBytes(uint64(info.Size())) + ", limit " + humanize.IBytes(MaxFileBytes) + ")."
		return result, nil
	}

	ext := strings.ToLower(filepath.Ext(info.Name()))
	switch {
	case textExtensions[ext]:
		return svc.previewText(ctx, abs, result)
	case imageExtensions[ext]:
		return svc.previewImage(ctx, abs, result)
	default:
		result.Kind = KindUnsupported
		result.Message = "Preview is not available for this file type."
		return result, nil
	}
}

func (svc *Service) previewText(ctx context.Context, abs string, result *Result) (*Result, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fserr.IO(err, "Unable to read file.")
	}

	content, truncated := TruncateText(string(data), MaxTextChars)
	if truncated {
		logger.FromContext(ctx).Debug("truncated text preview", logger.Data{"name": result.Name, "size": result.Size})
	}

	result.Kind = KindText
	result.MimeType = mimetypes.ForName(result.Name)
	result.Content = content
	result.Truncated = truncated
	return result, nil
}

func (svc *Service) previewImage(_ context.Context, abs string, result *Result) (*Result, error) {
	if result.Size > MaxImageBytes {
		result.Kind = KindError
		result.Message = "Image is too large for preview (" + humanize.IBytes(uint64(result.Size)) + ", limit " + humanize.IBytes(MaxImageBytes) + ")."
		return result, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fserr.IO(err, "Unable to read file.")
	}

	mimeType := mimetypes.ForName(result.Name)
	if mimeType == "" {
		mimeType = mimetypes.OctetStream
	}

	result.Kind = KindImage
	result.MimeType = mimeType
	result.Content = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return result, nil
}

// TruncateText decodes s as UTF-8, replacing invalid sequences, and cuts it
// down to limit characters followed by TruncationMarker when it's longer.
func TruncateText(s string, limit int) (string, bool) {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + TruncationMarker, true
		}
		count++
	}
	return s, false
}
