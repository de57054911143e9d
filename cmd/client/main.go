package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sevenoy/GeminiMeds/internal/client"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/tui"
	"github.com/sevenoy/GeminiMeds/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("geminimeds-client", logger.FileOptions{
		Path:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		if err = run(ctx, app); err != nil {
			log.Fatal().Err(err).Msg("client run error")
		}
		log.Info().Msg("client stopped")
		return
	}

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	ui := tui.New(app.Services(), app, build, log)
	app.OnReload = ui.Notify

	ctx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() {
		err := run(ctx, app)
		if err != nil {
			cancel()
		}
		runErr <- err
	}()

	uiErr := ui.Run(ctx)
	cancel()

	if err = errors.Join(uiErr, <-runErr); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
	log.Info().Msg("client stopped")
}

func run(ctx context.Context, app client.Client) error {
	err := app.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
