package filesystem

import "time"

// BrowseQuery contains query parameters for the browse endpoint.
type BrowseQuery struct {
	Path string `query:"path" json:"path,omitempty"`
}

// DownloadQuery contains query parameters for the download endpoint.
type DownloadQuery struct {
	Path string `query:"path" json:"path" validate:"required"`
}

// Entry represents a filesystem entry (file or directory). Path is relative to
// the root and slash-separated.
type Entry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	IsDir      bool      `json:"is_dir"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Totals aggregates the direct children of a directory.
type Totals struct {
	TotalBytes     int64 `json:"total_bytes"`
	FileCount      int   `json:"file_count"`
	DirectoryCount int   `json:"directory_count"`
}

// BrowseResponse contains the response for the browse endpoint.
type BrowseResponse struct {
	CurrentPath string  `json:"current_path"`
	ParentPath  *string `json:"parent_path"`
	Entries     []Entry `json:"entries"`
	Totals
}
