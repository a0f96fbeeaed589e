package main

import (
	"fmt"
	"log"
	"net/http"

	"qrforge/internal/api"
	"qrforge/internal/api/handlers"
	"qrforge/internal/api/middleware"
	"qrforge/internal/engine/upload"
	"qrforge/internal/pkg/logger"
	"qrforge/internal/platform/config"
	"qrforge/internal/platform/storage"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	store, err := storage.NewDiskStore(cfg.Storage.MediaDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to open media store: %v", err)
	}

	uploadSvc := upload.NewService(store)

	deps := &api.Dependencies{
		UploadHandler:  handlers.NewUploadHandler(uploadSvc),
		QRHandler:      handlers.NewQRHandler(),
		MediaHandler:   handlers.NewMediaHandler(store),
		HealthHandler:  handlers.NewHealthHandler(),
		CORSMiddleware: middleware.NewCORSMiddleware(cfg.CORS),
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
