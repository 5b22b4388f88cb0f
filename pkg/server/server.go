package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/filedock/pkg/binder"
	"github.com/shishobooks/filedock/pkg/config"
	"github.com/shishobooks/filedock/pkg/errcodes"
	"github.com/shishobooks/filedock/pkg/filesystem"
	"github.com/shishobooks/filedock/pkg/items"
	"github.com/shishobooks/filedock/pkg/metrics"
	"github.com/shishobooks/filedock/pkg/preview"
	"github.com/shishobooks/filedock/pkg/sandbox"
	"github.com/shishobooks/filedock/pkg/search"
	"github.com/shishobooks/filedock/pkg/uploads"
)

func New(cfg *config.Config, root *sandbox.Root) (*http.Server, error) {
	e, err := newEcho(cfg, root)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, root *sandbox.Root) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	if cfg.MetricsEnabled {
		e.Use(metrics.Middleware(errcodes.StatusCode))
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins(),
	}))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadSizeMB)))

	health.RegisterRoutes(e)
	if cfg.MetricsEnabled {
		metrics.RegisterRoutes(e)
	}

	config.RegisterRoutes(e, cfg)

	// Everything under /files operates on the tree below root.
	filesGroup := e.Group("/files")
	filesystem.RegisterRoutesWithGroup(filesGroup, root)
	search.RegisterRoutesWithGroup(filesGroup, root)
	items.RegisterRoutesWithGroup(filesGroup, root)
	preview.RegisterRoutesWithGroup(filesGroup, root)
	uploads.RegisterRoutesWithGroup(filesGroup, root)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
