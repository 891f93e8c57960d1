package main

import (
	"context"
	"fmt"

	"github.com/BinGess/Ocean-backend/internal/adapter"
	"github.com/BinGess/Ocean-backend/internal/config"
	httphandler "github.com/BinGess/Ocean-backend/internal/handler/http"
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/server"
	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/internal/workers"
	"github.com/BinGess/Ocean-backend/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.New("ocean-server")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	db, err := store.NewConnect(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err = migrations.Migrate(db.DB, cfg.Storage.DB.Driver); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repositories := store.NewRepositories(db, log)

	auditWriter := workers.NewAuditWriter(repositories.SyncLogRepository, cfg.Workers.AuditBufferSize, log)
	nvcClient := adapter.NewNVCClient(cfg.AI)

	services := service.NewServices(repositories, auditWriter, nvcClient, cfg, log)
	handler := httphandler.NewHandler(services, cfg.App.Version, log)

	srv, err := server.NewServer(handler.Init(), auditWriter, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
