// internal/ingest/commission_xlsx.go
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mytimarket/shop-reports/internal/domain"
)

var (
	shopColumnPattern       = regexp.MustCompile(`(?i)shop\s*name|shop|name|vendor|product_vendor`)
	commissionColumnPattern = regexp.MustCompile(`(?i)commission|rate|percentage`)
)

// ErrNoCommissionData is returned when no row of the workbook yields a valid
// shop/percentage pair.
var ErrNoCommissionData = errors.New("workbook contains no valid commission rows")

// ParseCommissionWorkbook reads shop commission overrides from the first
// sheet of an XLSX workbook. Column headers are matched loosely: any header
// mentioning shop/vendor/name pairs with any header mentioning
// commission/rate/percentage. Percentages given as fractions (0.15) are
// scaled to percent form; a trailing "%" is tolerated. Invalid rows are
// skipped, not fatal.
func ParseCommissionWorkbook(r io.Reader) ([]domain.CommissionOverride, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open commission workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrNoCommissionData
	}

	shopCol, pctCol := -1, -1
	for i, h := range rows[0] {
		if pctCol < 0 && commissionColumnPattern.MatchString(h) {
			pctCol = i
			continue
		}
		if shopCol < 0 && shopColumnPattern.MatchString(h) {
			shopCol = i
		}
	}
	if shopCol < 0 || pctCol < 0 {
		return nil, errors.New("workbook is missing a shop name or commission column")
	}

	var overrides []domain.CommissionOverride
	for _, row := range rows[1:] {
		if shopCol >= len(row) || pctCol >= len(row) {
			continue
		}
		shopName := strings.TrimSpace(row[shopCol])
		pct, ok := parsePercentage(row[pctCol])
		if shopName == "" || !ok {
			continue
		}
		overrides = append(overrides, domain.CommissionOverride{
			ShopName:             shopName,
			CommissionPercentage: pct,
		})
	}
	if len(overrides) == 0 {
		return nil, ErrNoCommissionData
	}
	return overrides, nil
}

// ParseCommissionWorkbookFile is the path-based convenience wrapper used by
// the CLI and the Drive sync path.
func ParseCommissionWorkbookFile(path string) ([]domain.CommissionOverride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCommissionWorkbook(f)
}

func parsePercentage(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	pct, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	// A bare fraction like 0.15 means 15%.
	if pct > 0 && pct < 1 {
		pct *= 100
	}
	return pct, true
}
