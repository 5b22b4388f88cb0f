package preview

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

func RegisterRoutesWithGroup(g *echo.Group, root *sandbox.Root) {
	previewService := NewService(root)

	h := &handler{
		previewService: previewService,
	}

	g.GET("/preview", h.preview)
}
