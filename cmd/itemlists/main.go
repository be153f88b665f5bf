package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/karupanerura/item-service/cmd/itemlists/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand(os.Environ).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
