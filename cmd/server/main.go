package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/feed"
	"github.com/sevenoy/GeminiMeds/internal/handler"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/server"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("geminimeds-server")

	// geminimeds-server token <owner-id> [flags] prints a bearer token for
	// owner-id signed with the configured key.
	if len(os.Args) > 2 && os.Args[1] == "token" {
		ownerID := os.Args[2]
		os.Args = append([]string{os.Args[0]}, os.Args[3:]...)
		issueToken(ownerID, log)
		return
	}

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	photos, err := newPhotoStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating photo store")
	}

	hub := feed.NewHub(log)

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, photos, hub, cfg.App, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, hub, storages, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.OnShutdown(hub.Close)
	srv.OnShutdown(func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	})

	srv.RunServer()
}

func newPhotoStore(ctx context.Context, cfg *config.ServerConfig, log *logger.Logger) (store.PhotoStore, error) {
	if cfg.UsesS3() {
		return store.NewS3PhotoStore(ctx, cfg.Storage.Photos.S3, log)
	}
	return store.NewFSPhotoStore(cfg.Storage.Photos.Dir, log)
}

func issueToken(ownerID string, log *logger.Logger) {
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	token, err := service.NewAuthService(cfg.App, log).CreateToken(context.Background(), ownerID)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing token")
	}

	fmt.Println(token.SignedString)
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
