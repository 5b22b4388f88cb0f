package preview

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/filedock/pkg/metrics"
)

type handler struct {
	previewService *Service
}

func (h *handler) preview(c echo.Context) error {
	ctx := c.Request().Context()

	params := PreviewQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.previewService.Preview(ctx, params.Path)
	metrics.RecordOperation("preview", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}
