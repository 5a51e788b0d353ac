// internal/api/handlers/shopify_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/service"
)

type ShopifyHandler struct {
	shopifyService *service.ShopifyService
}

func NewShopifyHandler(shopifyService *service.ShopifyService) *ShopifyHandler {
	return &ShopifyHandler{shopifyService: shopifyService}
}

// Status reports whether the configured store credentials work.
func (h *ShopifyHandler) Status(c *gin.Context) {
	if err := h.shopifyService.CheckConnection(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("store connection check failed")
		c.JSON(http.StatusBadGateway, gin.H{"connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

type storeReportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GenerateFromStore pulls orders from the store API for the requested window
// and returns the generated bundle.
func (h *ShopifyHandler) GenerateFromStore(c *gin.Context) {
	var req storeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	from, ok := parseWindowDate(c, req.From, "from")
	if !ok {
		return
	}
	to, ok := parseWindowDate(c, req.To, "to")
	if !ok {
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return
	}

	bundle, err := h.shopifyService.GenerateFromStore(c.Request.Context(), from, to, nil)
	if err != nil {
		log.Error().Err(err).Msg("store report generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "store report generation failed"})
		return
	}

	c.JSON(http.StatusOK, bundle)
}

func parseWindowDate(c *gin.Context, value, field string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be RFC3339 or YYYY-MM-DD"})
	return time.Time{}, false
}
