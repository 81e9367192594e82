package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/taskdeck-go/internal/cli/command"
	"github.com/yndnr/taskdeck-go/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background(), func() { os.Exit(130) })
	defer stop()

	if err := command.App().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
