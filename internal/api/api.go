// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/api/handlers"
	"github.com/mytimarket/shop-reports/internal/api/middleware"
	"github.com/mytimarket/shop-reports/internal/service"
)

type Services struct {
	ReportService  *service.ReportService
	ShopifyService *service.ShopifyService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.POST("/generate", reportHandler.GenerateReports)
				reportGroup.POST("/export", reportHandler.ExportReports)
				reportGroup.GET("/shops", reportHandler.GetShopReports)
				reportGroup.GET("/delivery", reportHandler.GetDeliveryReport)
				reportGroup.GET("/date_range", reportHandler.GetDateRange)
			}

			overrideHandler := handlers.NewOverrideHandler(services.ReportService)
			overrideGroup := apiGroup.Group("/commissions")
			{
				overrideGroup.GET("", overrideHandler.GetOverrides)
				overrideGroup.PUT("", overrideHandler.SaveOverrides)
				overrideGroup.POST("/upload", overrideHandler.UploadWorkbook)
				overrideGroup.DELETE("/:shop", overrideHandler.DeleteOverride)
			}
		}

		if services.ShopifyService != nil {
			shopifyHandler := handlers.NewShopifyHandler(services.ShopifyService)
			shopifyGroup := apiGroup.Group("/shopify")
			{
				shopifyGroup.GET("/status", shopifyHandler.Status)
				shopifyGroup.POST("/reports", shopifyHandler.GenerateFromStore)
			}
		}
	}

	return router
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
