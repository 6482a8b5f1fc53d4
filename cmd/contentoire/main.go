package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Smartoire/Contentoire/internal/app"
	"github.com/Smartoire/Contentoire/internal/config"
	"github.com/Smartoire/Contentoire/internal/logging"
	"github.com/Smartoire/Contentoire/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	var (
		family = flag.String("source", "all", "source family to ingest: providers, feeds, or all")
		daemon = flag.Bool("daemon", false, "stay resident and run on the configured cron schedule")
	)
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *daemon {
		err = application.RunDaemon(ctx, usecase.Family(*family))
	} else {
		err = application.RunOnce(ctx, usecase.Family(*family))
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
