// cmd/api/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/mytimarket/shop-reports/internal/api/webhook"
	"github.com/mytimarket/shop-reports/internal/cache"
	"github.com/mytimarket/shop-reports/internal/config"
	"github.com/mytimarket/shop-reports/internal/drive"
	"github.com/mytimarket/shop-reports/internal/repository"
	"github.com/mytimarket/shop-reports/internal/repository/postgres"
	"github.com/mytimarket/shop-reports/internal/service"
)

// Webhook sidecar: listens for Drive sync triggers and turns the shared
// folder's exports into report runs.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	credentials := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON")
	if credentials == "" {
		if data, err := os.ReadFile(cfg.Drive.CredentialsFile); err == nil {
			credentials = string(data)
		}
	}
	driveService, err := drive.NewService(credentials)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var (
		overrideRepo repository.OverrideRepository = postgres.NewOverrideRepository(db)
		archiveRepo  repository.ArchiveRepository  = postgres.NewArchiveRepository(db)
	)

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		log.Printf("Report cache unavailable, continuing without: %v", err)
		reportCache = cache.NewNoopReportCache()
	}

	reportService := service.NewReportService(overrideRepo, archiveRepo, reportCache, nil)
	downloader := drive.NewDownloader(driveService)

	r := mux.NewRouter()

	handler := webhook.NewHandler(downloader, driveService, reportService, cfg.Drive.FolderPath)
	handler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
