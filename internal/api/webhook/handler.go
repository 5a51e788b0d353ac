// internal/api/webhook/handler.go
package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/drive"
	"github.com/mytimarket/shop-reports/internal/service"
)

// Handler exposes the Drive-folder sync over plain HTTP. A cron or a Drive
// push notification hits /sync and the folder's exports become a report run.
type Handler struct {
	downloader    *drive.Downloader
	driveService  *drive.Service
	reportService *service.ReportService
	folderPath    string
}

func NewHandler(downloader *drive.Downloader, driveService *drive.Service, reportService *service.ReportService, folderPath string) *Handler {
	return &Handler{
		downloader:    downloader,
		driveService:  driveService,
		reportService: reportService,
		folderPath:    folderPath,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/webhooks/drive/sync", h.Sync).Methods("POST")
	r.HandleFunc("/webhooks/drive/files", h.ListFiles).Methods("GET")
}

// Sync pulls the configured folder and runs the engine over its contents.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	contents, err := h.downloader.FetchFolder(r.Context(), h.folderPath)
	if err != nil {
		log.Error().Err(err).Str("folder", h.folderPath).Msg("drive sync failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "drive sync failed"})
		return
	}

	if len(contents.Lines) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "no order exports in folder",
			"files":   contents.Files,
		})
		return
	}

	bundle, err := h.reportService.GenerateReports(r.Context(), contents.Lines, contents.Overrides)
	if err != nil {
		log.Error().Err(err).Msg("report generation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":  contents.Files,
		"bundle": bundle,
	})
}

// ListFiles shows what the sync would pick up.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, err := h.driveService.FindFolderByPath(h.folderPath)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	files, err := h.driveService.ListFiles(folderID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode webhook response")
	}
}
