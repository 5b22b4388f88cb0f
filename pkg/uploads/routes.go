package uploads

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

func RegisterRoutesWithGroup(g *echo.Group, root *sandbox.Root) {
	uploadService := NewService(root)

	h := &handler{
		uploadService: uploadService,
	}

	g.POST("/upload", h.upload)
}
