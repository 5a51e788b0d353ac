// cmd/reports/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/export"
	"github.com/mytimarket/shop-reports/internal/ingest"
	"github.com/mytimarket/shop-reports/internal/report"
	"github.com/mytimarket/shop-reports/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "reports",
		Usage: "Generate shop commission reports from order exports",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Run the engine over an order export and write per-shop CSVs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "orders",
						Usage:    "Path to the orders CSV export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "commissions",
						Usage: "Path to the commission rates workbook (XLSX)",
					},
					&cli.StringFlag{
						Name:  "out-dir",
						Usage: "Directory for the rendered report CSVs",
						Value: "./data/exports",
					},
				},
				Action: runGenerate,
			},
			{
				Name:  "import-commissions",
				Usage: "Load a commission workbook into the database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:     "workbook",
						Usage:    "Path to the commission rates workbook (XLSX)",
						Required: true,
					},
				},
				Action: runImportCommissions,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(c *cli.Context) error {
	f, err := os.Open(c.String("orders"))
	if err != nil {
		return fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()

	lines, err := ingest.ParseOrders(f)
	if err != nil {
		return fmt.Errorf("failed to parse orders file: %w", err)
	}

	var overrides []domain.CommissionOverride
	if path := c.String("commissions"); path != "" {
		overrides, err = ingest.ParseCommissionWorkbook(mustOpen(path))
		if err != nil {
			return fmt.Errorf("failed to parse commission workbook: %w", err)
		}
	}

	svc := service.NewReportService(nil, nil, nil, nil)
	bundle, err := svc.GenerateReports(c.Context, lines, overrides)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	outDir := c.String("out-dir")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	for _, shop := range bundle.Shops {
		path := filepath.Join(outDir, shopFileName(shop.ShopName))
		if err := writeReportFile(path, func(out *os.File) error {
			return export.WriteShopReportCSV(out, shop)
		}); err != nil {
			return err
		}
		log.Printf("wrote %s (%d lines, payment %.2f)", path, len(shop.Orders), shop.Summary.TotalPayment)
	}

	if len(bundle.Delivery.Orders) > 0 {
		path := filepath.Join(outDir, "deliveries.csv")
		if err := writeReportFile(path, func(out *os.File) error {
			return export.WriteDeliveryReportCSV(out, bundle.Delivery)
		}); err != nil {
			return err
		}
		log.Printf("wrote %s (%d deliveries)", path, bundle.Delivery.Summary.TotalDeliveries)
	}

	log.Printf("processed %d lines across %d shops", bundle.LineCount, len(bundle.Shops))
	return nil
}

func runImportCommissions(c *cli.Context) error {
	overrides, err := ingest.ParseCommissionWorkbookFile(c.String("workbook"))
	if err != nil {
		return fmt.Errorf("failed to parse commission workbook: %w", err)
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
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
			return fmt.Errorf("failed to upsert rate for %s: %w", o.ShopName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("imported %d commission rates", len(overrides))
	return nil
}

func mustOpen(path string) *os.File {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
	}
	return f
}

func shopFileName(shopName string) string {
	name := make([]rune, 0, len(shopName))
	for _, r := range shopName {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			name = append(name, r)
		case r >= 'A' && r <= 'Z':
			name = append(name, r+('a'-'A'))
		case r == ' ', r == '-', r == '_':
			name = append(name, '_')
		}
	}
	if len(name) == 0 {
		return "shop.csv"
	}
	return string(name) + ".csv"
}

func writeReportFile(path string, render func(*os.File) error) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(out); err != nil {
		out.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return out.Close()
}
