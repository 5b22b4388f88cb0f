package filesystem

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/filedock/pkg/metrics"
)

type handler struct {
	filesystemService *Service
}

func (h *handler) browse(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind query params.
	params := BrowseQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	resp, err := h.filesystemService.Browse(ctx, BrowseOptions(params))
	metrics.RecordOperation("browse", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) download(c echo.Context) error {
	ctx := c.Request().Context()

	params := DownloadQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	file, err := h.filesystemService.RetrieveFile(ctx, params.Path)
	metrics.RecordOperation("download", err)
	if err != nil {
		return errors.WithStack(err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, file.ContentType)
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))

	// c.File opens and closes the file itself, including when the transfer is
	// cut short.
	return errors.WithStack(c.File(file.Path))
}
