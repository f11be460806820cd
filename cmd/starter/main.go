// Command starter runs the HTTP API and the administrative commands.
//
// Usage:
//
//	starter serve
//	starter migrate up
//	starter users create --email=admin@example.com --superuser
//
// Configuration is read from config.yaml (or --config) and the environment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/briancappello/starter/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
