package items

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

// RegisterRoutesWithGroup registers the mutation routes on g.
func RegisterRoutesWithGroup(g *echo.Group, root *sandbox.Root) {
	itemsService := NewService(root)

	h := &handler{
		itemsService: itemsService,
	}

	g.DELETE("", h.delete)
	g.POST("/copy", h.copy)
	g.POST("/move", h.move)
	g.POST("/folders", h.createFolder)
}
