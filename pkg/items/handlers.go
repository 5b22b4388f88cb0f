package items

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/filedock/pkg/metrics"
)

type handler struct {
	itemsService *Service
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	params := DeleteQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err := h.itemsService.Delete(ctx, DeleteOptions(params))
	metrics.RecordOperation("delete", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) copy(c echo.Context) error {
	ctx := c.Request().Context()

	params := CopyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	path, err := h.itemsService.Copy(ctx, CopyOptions(params))
	metrics.RecordOperation("copy", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, &ItemResponse{Path: path}))
}

func (h *handler) move(c echo.Context) error {
	ctx := c.Request().Context()

	params := MovePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	path, err := h.itemsService.Move(ctx, MoveOptions(params))
	metrics.RecordOperation("move", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ItemResponse{Path: path}))
}

func (h *handler) createFolder(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateFolderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	path, err := h.itemsService.CreateFolder(ctx, CreateFolderOptions(params))
	metrics.RecordOperation("create_folder", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, &ItemResponse{Path: path}))
}
