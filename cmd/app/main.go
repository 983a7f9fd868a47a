package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"postbot/internal/app"
	"postbot/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly
	conf, err := config.New(".env")
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(conf.App)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, conf, logger)
	if err != nil {
		logger.Error("Error starting app", zap.Error(err))
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("Error closing resources", zap.Error(err))
		}
	}()

	logger.Info("App is running...",
		zap.Bool("web", conf.WebEnabled),
		zap.Bool("bot", conf.BotEnabled),
		zap.String("botMode", conf.Bot.Mode),
	)
	return application.Run(ctx)
}
