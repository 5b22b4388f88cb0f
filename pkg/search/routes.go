package search

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

// RegisterRoutesWithGroup registers search routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, root *sandbox.Root) {
	searchService := NewService(root)

	h := &handler{
		searchService: searchService,
	}

	g.GET("/search", h.search)
}
