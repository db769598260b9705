package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address." env:"CYCLEFIT_ADDR" default:"127.0.0.1:8080"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultAddr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(ctx.Out, "Serving cyclefit API on http://%s (Ctrl+C to stop)\n", addr)
	return server.New(ctx.Service).ListenAndServe(sigCtx, addr)
}
