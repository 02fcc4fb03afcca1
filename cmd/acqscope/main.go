// Command acqscope browses vehicle-sensor acquisitions as photo panels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/cli"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(func(opts cli.Options) (*cli.Services, error) {
		return bootstrap(ctx, opts)
	})
	return cli.ExecuteContext(ctx)
}
