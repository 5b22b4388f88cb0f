// Package mimetypes maps file names to content types for downloads and
// previews.
package mimetypes

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const OctetStream = "application/octet-stream"

var byExtension = map[string]string{
	".bmp":    "image/bmp",
	".conf":   "text/plain",
	".config": "text/plain",
	".cpp":    "text/x-c++src",
	".cs":     "text/plain",
	".css":    "text/css",
	".csv":    "text/csv",
	".gif":    "image/gif",
	".gz":     "application/gzip",
	".h":      "text/x-chdr",
	".html":   "text/html",
	".java":   "text/x-java",
	".jpeg":   "image/jpeg",
	".jpg":    "image/jpeg",
	".js":     "text/javascript",
	".json":   "application/json",
	".log":    "text/plain",
	".md":     "text/markdown",
	".mp3":    "audio/mpeg",
	".mp4":    "video/mp4",
	".pdf":    "application/pdf",
	".php":    "text/x-php",
	".png":    "image/png",
	".py":     "text/x-python",
	".rb":     "text/x-ruby",
	".svg":    "image/svg+xml",
	".tar":    "application/x-tar",
	".toml":   "application/toml",
	".ts":     "text/plain",
	".txt":    "text/plain",
	".webp":   "image/webp",
	".xml":    "application/xml",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".zip":    "application/zip",
}

// ForName returns the content type registered for the extension of name, or
// the empty string when the extension is unknown.
func ForName(name string) string {
	return byExtension[strings.ToLower(filepath.Ext(name))]
}

// Detect returns the content type for the file at path. The extension table
// wins; otherwise the content is sniffed, and anything that can't be sniffed
// is served as an octet stream.
func Detect(path string) string {
	if ct := ForName(path); ct != "" {
		return ct
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return OctetStream
	}
	return mtype.String()
}
