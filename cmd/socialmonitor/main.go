package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SocialMonitor/internal/app"
	"SocialMonitor/internal/config"
	"SocialMonitor/internal/infrastructure/scheduler"
	"SocialMonitor/internal/logging"
	"SocialMonitor/internal/usecase"
)

func main() {
	once := flag.Bool("once", false, "run a single enrichment pass and exit")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *once {
		if err := application.Run(ctx); err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := scheduler.NewTickerScheduler(time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute)
	runner := usecase.NewScheduler(driver, application.Pipeline(), logger.With("component", "scheduler"))
	if err := runner.Start(ctx); err != nil {
		logger.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	_ = runner.Stop(context.Background())
}
