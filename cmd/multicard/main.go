// Command multicard is a command-line client for the Multicard payment API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/peteraglen/multicard-go-client/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
