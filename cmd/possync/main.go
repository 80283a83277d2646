package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dukaanly/possync/internal/client/cli"
	"github.com/dukaanly/possync/internal/client/config"
	"github.com/dukaanly/possync/internal/logging"
)

func main() {

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
