package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"mapsmith/internal/config"
	"mapsmith/internal/geocode"
	"mapsmith/internal/handler"
	"mapsmith/internal/llm"
	"mapsmith/internal/port"
	"mapsmith/internal/router"
	"mapsmith/internal/service"
	"mapsmith/internal/session"
	s3storage "mapsmith/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Session store with background eviction
	store := session.NewStore(&cfg.Session)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartJanitor(ctx)

	// LLM client (OCR + structuring)
	llmClient := llm.NewClient(&cfg.LLM)

	// Geocoder is optional; batch runs fail with a clear error without one.
	var runner *geocode.BatchRunner
	if cfg.Geocoder.APIKey != "" {
		geocoder, err := geocode.NewGeocoder(&cfg.Geocoder)
		if err != nil {
			return fmt.Errorf("failed to initialize geocoder: %w", err)
		}
		runner = geocode.NewBatchRunner(geocoder, &cfg.Geocoder)
	} else {
		log.Print("no geocoder API key configured; geocoding disabled")
	}

	// Object storage is optional; archiving fails with a clear error without it.
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	sessionSvc := service.NewSessionService(store)
	extractSvc := service.NewExtractService(store, llmClient, &cfg.Upload)
	documentSvc := service.NewDocumentService(store, llmClient)
	tagSvc := service.NewTagService(store, llmClient)
	geocodeSvc := service.NewGeocodeService(store, runner)
	exportSvc := service.NewExportService(store, storage, &cfg.Export, &cfg.S3)

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessionSvc)
	extractH := handler.NewExtractHandler(extractSvc)
	documentH := handler.NewDocumentHandler(documentSvc)
	tagH := handler.NewTagHandler(tagSvc)
	geocodeH := handler.NewGeocodeHandler(geocodeSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(store)

	// Setup router
	r := router.Setup(cfg, sessionH, extractH, documentH, tagH, geocodeH, exportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
