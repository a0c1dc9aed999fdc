package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/blogkeeper/internal/client/cli"
	"github.com/dmitrijs2005/blogkeeper/internal/client/config"
	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	// "client whoami" runs one command; no positional argument opens the REPL.
	if args := flagx.Positional(os.Args[1:], config.ValueFlags); len(args) > 0 {
		if err := app.Exec(ctx, args[0]); err != nil {
			app.Close()
			log.Fatalf("%s: %v", args[0], err)
		}
		return
	}

	app.Run(ctx)

}
