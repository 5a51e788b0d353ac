// internal/repository/postgres/archive_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// ReportRun is one archived engine run.
type ReportRun struct {
	ID          int64      `db:"id"`
	BatchDigest string     `db:"batch_digest"`
	LineCount   int        `db:"line_count"`
	ShopCount   int        `db:"shop_count"`
	RangeStart  *time.Time `db:"range_start"`
	RangeEnd    *time.Time `db:"range_end"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ShopRunSummary is one shop's totals inside an archived run.
type ShopRunSummary struct {
	RunID           int64   `db:"run_id"`
	ShopName        string  `db:"shop_name"`
	TotalOrders     int     `db:"total_orders"`
	TotalQuantity   int     `db:"total_quantity"`
	TotalGrossSales float64 `db:"total_gross_sales"`
	TotalReturns    float64 `db:"total_returns"`
	TotalNetSales   float64 `db:"total_net_sales"`
	TotalCommission float64 `db:"total_commission"`
	TotalPayment    float64 `db:"total_payment"`
}

type archiveRepository struct {
	db *DB
}

func NewArchiveRepository(db *DB) *archiveRepository {
	return &archiveRepository{db: db}
}

// SaveRun archives a finished bundle: one run row plus one summary row per
// shop. Re-running the same batch overwrites the previous archive for its
// digest.
func (r *archiveRepository) SaveRun(ctx context.Context, digest string, bundle *domain.ReportBundle) (int64, error) {
	var runID int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO report_runs (batch_digest, line_count, shop_count, range_start, range_end, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (batch_digest)
			DO UPDATE SET
				line_count = EXCLUDED.line_count,
				shop_count = EXCLUDED.shop_count,
				range_start = EXCLUDED.range_start,
				range_end = EXCLUDED.range_end,
				created_at = NOW()
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query,
			digest,
			bundle.LineCount,
			len(bundle.Shops),
			bundle.DateRange.Earliest,
			bundle.DateRange.Latest,
		).Scan(&runID); err != nil {
			return fmt.Errorf("failed to upsert report run: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM report_run_shops WHERE run_id = $1`, runID); err != nil {
			return fmt.Errorf("failed to clear previous run summaries: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO report_run_shops (
				run_id, shop_name, total_orders, total_quantity,
				total_gross_sales, total_returns, total_net_sales,
				total_commission, total_payment
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, shop := range bundle.Shops {
			s := shop.Summary
			if _, err := stmt.ExecContext(ctx,
				runID, shop.ShopName,
				s.TotalOrders, s.TotalQuantity,
				s.TotalGrossSales, s.TotalReturns, s.TotalNetSales,
				s.TotalCommission, s.TotalPayment,
			); err != nil {
				return fmt.Errorf("failed to insert shop summary: %w", err)
			}
		}

		return nil
	})
	return runID, err
}

func (r *archiveRepository) GetRuns(ctx context.Context, limit int) ([]ReportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, batch_digest, line_count, shop_count, range_start, range_end, created_at
		FROM report_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	var runs []ReportRun
	if err := sqlx.SelectContext(ctx, r.db, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get report runs: %w", err)
	}

	return runs, nil
}

func (r *archiveRepository) GetRunShops(ctx context.Context, runID int64) ([]ShopRunSummary, error) {
	query := `
		SELECT run_id, shop_name, total_orders, total_quantity,
		       total_gross_sales, total_returns, total_net_sales,
		       total_commission, total_payment
		FROM report_run_shops
		WHERE run_id = $1
		ORDER BY shop_name
	`

	var shops []ShopRunSummary
	if err := sqlx.SelectContext(ctx, r.db, &shops, query, runID); err != nil {
		return nil, fmt.Errorf("failed to get run summaries: %w", err)
	}

	return shops, nil
}
