// internal/service/shopify_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/shopify"
)

// OrderSource is the slice of the store API client this service needs.
type OrderSource interface {
	TestConnection(ctx context.Context) error
	FetchOrders(ctx context.Context, createdAtMin, createdAtMax time.Time) ([]shopify.Order, error)
}

// ShopifyService pulls orders straight from the store admin API and feeds
// them to the report engine, skipping the CSV export step entirely.
type ShopifyService struct {
	source  OrderSource
	reports *ReportService
}

func NewShopifyService(source OrderSource, reports *ReportService) *ShopifyService {
	return &ShopifyService{source: source, reports: reports}
}

// CheckConnection verifies the configured store credentials.
func (s *ShopifyService) CheckConnection(ctx context.Context) error {
	return s.source.TestConnection(ctx)
}

// GenerateFromStore fetches every order in the window and runs the engine
// over the flattened line items.
func (s *ShopifyService) GenerateFromStore(ctx context.Context, from, to time.Time, overrides []domain.CommissionOverride) (*domain.ReportBundle, error) {
	orders, err := s.source.FetchOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch store orders: %w", err)
	}

	lines := shopify.FlattenOrders(orders)
	if lines == nil {
		lines = []domain.RawOrderLine{}
	}
	log.Info().Int("orders", len(orders)).Int("lines", len(lines)).Msg("fetched store orders")

	return s.reports.GenerateReports(ctx, lines, overrides)
}
