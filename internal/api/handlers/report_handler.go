// internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/ingest"
	"github.com/mytimarket/shop-reports/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReports accepts a multipart form with an "orders" CSV export and an
// optional "commissions" workbook, runs the engine, and returns the bundle.
func (h *ReportHandler) GenerateReports(c *gin.Context) {
	lines, overrides, ok := h.parseUploads(c)
	if !ok {
		return
	}

	bundle, err := h.reportService.GenerateReports(c.Request.Context(), lines, overrides)
	if err != nil {
		log.Error().Err(err).Msg("report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// ExportReports runs the engine and pushes the rendered CSVs to object
// storage instead of returning the bundle inline.
func (h *ReportHandler) ExportReports(c *gin.Context) {
	lines, overrides, ok := h.parseUploads(c)
	if !ok {
		return
	}

	bundle, err := h.reportService.GenerateReports(c.Request.Context(), lines, overrides)
	if err != nil {
		log.Error().Err(err).Msg("report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	runID := time.Now().UTC().Format("20060102-150405")
	keys, err := h.reportService.ExportToStorage(c.Request.Context(), runID, bundle)
	if err != nil {
		log.Error().Err(err).Msg("report export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report export failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":  runID,
		"objects": keys,
	})
}

// GetShopReports serves the per-shop reports of the last generated bundle.
func (h *ReportHandler) GetShopReports(c *gin.Context) {
	bundle := h.reportService.LastBundle()
	if bundle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reports generated yet"})
		return
	}
	c.JSON(http.StatusOK, bundle.Shops)
}

// GetDeliveryReport serves the delivery report of the last generated bundle.
func (h *ReportHandler) GetDeliveryReport(c *gin.Context) {
	bundle := h.reportService.LastBundle()
	if bundle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reports generated yet"})
		return
	}
	c.JSON(http.StatusOK, bundle.Delivery)
}

// GetDateRange serves the paid-at span of the last generated bundle.
func (h *ReportHandler) GetDateRange(c *gin.Context) {
	bundle := h.reportService.LastBundle()
	if bundle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reports generated yet"})
		return
	}
	c.JSON(http.StatusOK, bundle.DateRange)
}

func (h *ReportHandler) parseUploads(c *gin.Context) ([]domain.RawOrderLine, []domain.CommissionOverride, bool) {
	ordersFile, err := c.FormFile("orders")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orders file is required"})
		return nil, nil, false
	}

	f, err := ordersFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read orders file"})
		return nil, nil, false
	}
	defer f.Close()

	lines, err := ingest.ParseOrders(f)
	if err != nil {
		if errors.Is(err, ingest.ErrNoData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orders file contains no rows"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid orders file: %v", err)})
		}
		return nil, nil, false
	}

	var overrides []domain.CommissionOverride
	if workbook, err := c.FormFile("commissions"); err == nil {
		wf, err := workbook.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read commissions file"})
			return nil, nil, false
		}
		defer wf.Close()

		overrides, err = ingest.ParseCommissionWorkbook(wf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid commissions file: %v", err)})
			return nil, nil, false
		}
	}

	return lines, overrides, true
}
