// Command trafficsim-server exposes a running simulation over HTTP: a
// thin JSON API in front of pkg/trafficcore, session-authenticated the
// way this codebase's own web/server package guards its API routes.
package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/trafficgrid/sim/internal/config"
	"github.com/trafficgrid/sim/internal/obs"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default: ./trafficsim.yaml)")
	levelNum := flag.Int("level", 0, "built-in starter level to load")
	seed := flag.Int64("seed", 1, "deterministic RNG seed")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		obs.Logger.Error("trafficsim-server: load config", "err", err)
		os.Exit(1)
	}

	srv := NewServer(cfg, *levelNum, *seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:        cfg.ServerAddr,
		BaseContext: func(net.Listener) context.Context { return ctx },
		Handler:     withLogger(srv.Handler()),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			obs.Logger.Error("trafficsim-server: shutdown", "err", err)
		}
	}()

	obs.Logger.Info("trafficsim-server: listening", "addr", cfg.ServerAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		obs.Logger.Error("trafficsim-server: serve", "err", err)
		os.Exit(1)
	}
}
