// internal/repository/postgres/override_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/report"
)

type overrideRepository struct {
	db *DB
}

func NewOverrideRepository(db *DB) *overrideRepository {
	return &overrideRepository{db: db}
}

// SaveOverrides replaces the stored commission rates for the given shops.
// Rows are keyed by the normalized shop name so "Nu  Chocolat" and
// "nu chocolat" cannot coexist as separate rates.
func (r *overrideRepository) SaveOverrides(ctx context.Context, overrides []domain.CommissionOverride) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO commission_overrides (shop_key, shop_name, commission_pct, created_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (shop_key)
			DO UPDATE SET
				shop_name = EXCLUDED.shop_name,
				commission_pct = EXCLUDED.commission_pct,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, o := range overrides {
			key := report.NormalizeShopKey(o.ShopName)
			if key == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, key, o.ShopName, o.CommissionPercentage); err != nil {
				return fmt.Errorf("failed to upsert commission override: %w", err)
			}
		}

		return nil
	})
}

func (r *overrideRepository) GetOverrides(ctx context.Context) ([]domain.CommissionOverride, error) {
	query := `
		SELECT shop_name, commission_pct
		FROM commission_overrides
		ORDER BY shop_name
	`

	var overrides []domain.CommissionOverride
	if err := sqlx.SelectContext(ctx, r.db, &overrides, query); err != nil {
		return nil, fmt.Errorf("failed to get commission overrides: %w", err)
	}

	return overrides, nil
}

func (r *overrideRepository) DeleteOverride(ctx context.Context, shopName string) error {
	key := report.NormalizeShopKey(shopName)
	result, err := r.db.ExecContext(ctx, `DELETE FROM commission_overrides WHERE shop_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete commission override: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
