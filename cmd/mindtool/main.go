// Command mindtool browses and moderates a schematic, map and post server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rshade/mindtool/internal/cli"
	"github.com/rshade/mindtool/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}
