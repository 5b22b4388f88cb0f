package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/filedock/pkg/config"
	"github.com/shishobooks/filedock/pkg/sandbox"
	"github.com/shishobooks/filedock/pkg/server"
	"github.com/shishobooks/filedock/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting filedock", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	var opts []sandbox.Option
	if cfg.CaseSensitivePaths {
		opts = append(opts, sandbox.WithCaseSensitive())
	}
	root, err := sandbox.NewRoot(cfg.RootPath, opts...)
	if err != nil {
		log.Err(err).Fatal("root directory error")
	}
	log.Info("root directory ready", logger.Data{"path": root.Path(), "case_sensitive": root.CaseSensitive()})

	srv, err := server.New(cfg, root)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		// Extract actual port (useful when ServerPort is 0)
		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"host": cfg.ServerHost, "port": actualPort})

		if err := writePortFile(actualPort); err != nil {
			log.Err(err).Error("failed to write port file")
		}

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")
}

// writePortFile writes the server's actual port to tmp/api.port for local
// tooling. Skips silently if tmp/ doesn't exist (e.g., in Docker).
func writePortFile(port int) error {
	if _, err := os.Stat("tmp"); os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile("tmp/api.port", []byte(strconv.Itoa(port)), 0600)
}
