// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/repository/postgres"
)

type OverrideRepository interface {
	SaveOverrides(ctx context.Context, overrides []domain.CommissionOverride) error
	GetOverrides(ctx context.Context) ([]domain.CommissionOverride, error)
	DeleteOverride(ctx context.Context, shopName string) error
}

type ArchiveRepository interface {
	SaveRun(ctx context.Context, digest string, bundle *domain.ReportBundle) (int64, error)
	GetRuns(ctx context.Context, limit int) ([]postgres.ReportRun, error)
	GetRunShops(ctx context.Context, runID int64) ([]postgres.ShopRunSummary, error)
}
