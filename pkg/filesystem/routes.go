package filesystem

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

// RegisterRoutesWithGroup registers browse and download routes on g.
func RegisterRoutesWithGroup(g *echo.Group, root *sandbox.Root) {
	filesystemService := NewService(root)

	h := &handler{
		filesystemService: filesystemService,
	}

	g.GET("/browse", h.browse)
	g.GET("/download", h.download)
}
