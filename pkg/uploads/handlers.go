package uploads

import (
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/filedock/pkg/errcodes"
	"github.com/shishobooks/filedock/pkg/metrics"
)

type handler struct {
	uploadService *Service
}

func (h *handler) upload(c echo.Context) error {
	ctx := c.Request().Context()

	params := UploadPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	uploads := collectUploads(params.FormFiles)
	if len(uploads) == 0 {
		return errcodes.BadRequest("No files were uploaded.")
	}

	paths, err := h.uploadService.SaveAll(ctx, params.Path, uploads)
	metrics.RecordOperation("upload", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, &UploadResponse{Paths: paths}))
}

// collectUploads flattens the form files into a batch. Field names are
// visited in sorted order and files keep the order they were sent in.
func collectUploads(files map[string][]*multipart.FileHeader) []Upload {
	keys := make([]string, 0, len(files))
	for key := range files {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var uploads []Upload
	for _, key := range keys {
		for _, fh := range files[key] {
			uploads = append(uploads, Upload{
				FileName: fh.Filename,
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}
	return uploads
}
