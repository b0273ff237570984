package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/transport"
	"github.com/julianstephens/tracklit/internal/worker"
)

type ServeCmd struct {
	Listen string `help:"Serve WebSocket and metrics on this address instead of stdio."`
	WS     bool   `name:"ws" help:"Serve WebSocket on the configured listen address."`
	Queue  int    `help:"Request queue depth." default:"0"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	w := worker.New(func(openCtx context.Context) (storage.Provider, error) {
		s, err := ctx.Open(openCtx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}, c.Queue)

	addr := c.Listen
	if addr == "" && c.WS {
		addr = ctx.Config.Listen
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// a failed startup is reported to the peer as a signal; keep
		// the transport up so it can answer
		if err := w.Run(gctx); err != nil {
			logger.Warn("Worker exited", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if addr != "" {
			return transport.NewServer(addr, w).Run(gctx)
		}
		return transport.ServeStdio(gctx, w, os.Stdin, os.Stdout)
	})
	return g.Wait()
}
