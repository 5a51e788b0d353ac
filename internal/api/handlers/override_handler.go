// internal/api/handlers/override_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/ingest"
	"github.com/mytimarket/shop-reports/internal/service"
)

type OverrideHandler struct {
	reportService *service.ReportService
}

func NewOverrideHandler(reportService *service.ReportService) *OverrideHandler {
	return &OverrideHandler{reportService: reportService}
}

// GetOverrides lists the stored commission rates.
func (h *OverrideHandler) GetOverrides(c *gin.Context) {
	overrides, err := h.reportService.GetOverrides(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch commission overrides")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch commission rates"})
		return
	}
	if overrides == nil {
		overrides = []domain.CommissionOverride{}
	}
	c.JSON(http.StatusOK, overrides)
}

// SaveOverrides upserts the posted commission rates.
func (h *OverrideHandler) SaveOverrides(c *gin.Context) {
	var overrides []domain.CommissionOverride
	if err := c.ShouldBindJSON(&overrides); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid commission payload"})
		return
	}
	for _, o := range overrides {
		if o.ShopName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop_name is required"})
			return
		}
		if o.CommissionPercentage < 0 || o.CommissionPercentage > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("commission for %s out of range", o.ShopName)})
			return
		}
	}

	if err := h.reportService.SaveOverrides(c.Request.Context(), overrides); err != nil {
		log.Error().Err(err).Msg("failed to save commission overrides")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save commission rates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(overrides)})
}

// UploadWorkbook parses a commission workbook and stores its rates.
func (h *OverrideHandler) UploadWorkbook(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workbook file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read workbook"})
		return
	}
	defer f.Close()

	overrides, err := ingest.ParseCommissionWorkbook(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid workbook: %v", err)})
		return
	}

	if err := h.reportService.SaveOverrides(c.Request.Context(), overrides); err != nil {
		log.Error().Err(err).Msg("failed to save commission overrides")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save commission rates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(overrides)})
}

// DeleteOverride removes one shop's stored rate.
func (h *OverrideHandler) DeleteOverride(c *gin.Context) {
	shop := c.Param("shop")
	if shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop name is required"})
		return
	}

	err := h.reportService.DeleteOverride(c.Request.Context(), shop)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no commission rate for shop"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to delete commission override")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete commission rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": shop})
}
