package search

import "github.com/shishobooks/filedock/pkg/filesystem"

// SearchQuery represents the query parameters for search.
type SearchQuery struct {
	Path string `query:"path" json:"path,omitempty"`
	Term string `query:"q" json:"q" validate:"max=255"`
}

// SearchResponse represents the response from search. Entries are in walk
// order; callers should not rely on any particular ordering.
type SearchResponse struct {
	Entries []filesystem.Entry `json:"entries"`
}
