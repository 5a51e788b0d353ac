// internal/report/process.go
package report

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// Options tunes engine behavior that is data rather than code. The zero value
// is the production configuration.
type Options struct {
	// ReturnOverrides replaces LegacyReturnOverrides when non-nil. An empty
	// slice disables forced returns.
	ReturnOverrides []ReturnOverride
}

func (o Options) returnOverrides() []ReturnOverride {
	if o.ReturnOverrides != nil {
		return o.ReturnOverrides
	}
	return LegacyReturnOverrides
}

// ProcessLine turns one raw line plus its order siblings into a priced,
// commissioned line record. Malformed numeric fields coerce to 0; a bad row
// degrades instead of failing the batch.
func ProcessLine(line domain.RawOrderLine, commissionPct float64, siblings []domain.RawOrderLine, opts Options) domain.PricedLine {
	orderDate := dateOnly(line.CreatedAt)
	paidAt := dateOnly(line.PaidAt)

	if IsDeliverySurcharge(line.LineItemName) {
		return domain.PricedLine{
			OrderNumber:  line.OrderNumber,
			OrderDate:    orderDate,
			PaidAt:       paidAt,
			ProductTitle: line.LineItemName,
			ItemPrice:    DeliveryCharge,
			Quantity:     1,
			GrossSales:   DeliveryCharge,
			Returns:      0,
			NetSales:     DeliveryCharge,
			// The surcharge is a debit against the shop, never commissioned.
			CommissionPercentage: 0,
			CommissionAmount:     0,
			TotalPayment:         -DeliveryCharge,
			IsDeliveryCharge:     true,
		}
	}

	price := parseFloatField(line.LineItemPrice)
	quantity := parseIntField(line.LineItemQuantity)
	gross := price * float64(quantity)
	returns := CalculateReturns(line, siblings, opts)
	net := gross - returns

	pct := commissionPct
	if IsInHouseVendor(line.Vendor) {
		pct = 0
	}
	commission := net * pct / 100

	return domain.PricedLine{
		OrderNumber:          line.OrderNumber,
		OrderDate:            orderDate,
		PaidAt:               paidAt,
		ProductTitle:         line.LineItemName,
		ItemPrice:            price,
		Quantity:             quantity,
		GrossSales:           gross,
		Returns:              returns,
		NetSales:             net,
		CommissionPercentage: pct,
		CommissionAmount:     commission,
		TotalPayment:         net - commission,
	}
}

type shopGroup struct {
	display string
	lines   []domain.RawOrderLine
}

// groupByShop buckets raw lines by normalized shop identity. The display name
// of the first line seen for a key names the group.
func groupByShop(lines []domain.RawOrderLine) map[string]*shopGroup {
	groups := make(map[string]*shopGroup)
	for _, line := range lines {
		display := NormalizeShopDisplay(shopLabelFor(line))
		key := NormalizeShopKey(display)
		g, ok := groups[key]
		if !ok {
			g = &shopGroup{display: display}
			groups[key] = g
		}
		g.lines = append(g.lines, line)
	}
	return groups
}

// shopLabelFor picks the raw label a line is grouped under. Delivery lines
// whose vendor is blank or the delivery service itself resolve their shop
// from the title, so the surcharge debits the shop the delivery was run for.
func shopLabelFor(line domain.RawOrderLine) string {
	vendor := strings.TrimSpace(line.Vendor)
	if IsDeliverySurcharge(line.LineItemName) && (vendor == "" || IsInHouseVendor(vendor)) {
		return ExtractShopFromTitle(line.LineItemName, vendor)
	}
	return vendor
}

// groupByOrderNumber collects sibling lines so return inference sees whole
// orders.
func groupByOrderNumber(lines []domain.RawOrderLine) map[string][]domain.RawOrderLine {
	groups := make(map[string][]domain.RawOrderLine)
	for _, line := range lines {
		groups[line.OrderNumber] = append(groups[line.OrderNumber], line)
	}
	return groups
}

// BuildShopReports prices every line and folds the batch into per-shop
// reports, sorted alphabetically by shop name. Within a shop, lines are
// sorted by order number with numeric awareness ("#9" before "#10").
func BuildShopReports(lines []domain.RawOrderLine, overrides []domain.CommissionOverride, opts Options) []domain.ShopReport {
	table := NewCommissionTable(overrides)
	groups := groupByShop(lines)

	reports := make([]domain.ShopReport, 0, len(groups))
	for _, g := range groups {
		commissionPct := table.Resolve(g.display)
		orderGroups := groupByOrderNumber(g.lines)

		priced := make([]domain.PricedLine, 0, len(g.lines))
		for _, line := range g.lines {
			priced = append(priced, ProcessLine(line, commissionPct, orderGroups[line.OrderNumber], opts))
		}

		sort.SliceStable(priced, func(i, j int) bool {
			return CompareNatural(priced[i].OrderNumber, priced[j].OrderNumber) < 0
		})

		var summary domain.ShopSummary
		for _, p := range priced {
			summary = FoldSummary(summary, p)
		}

		reports = append(reports, domain.ShopReport{
			ShopName: g.display,
			Orders:   priced,
			Summary:  summary,
		})
	}

	collator := collate.New(language.English, collate.Loose)
	sort.SliceStable(reports, func(i, j int) bool {
		return collator.CompareString(reports[i].ShopName, reports[j].ShopName) < 0
	})
	return reports
}

// Generate runs the full pipeline over one batch: per-shop reports plus the
// cross-shop delivery report. Pure and deterministic; an empty batch yields
// empty, well-formed reports.
func Generate(lines []domain.RawOrderLine, overrides []domain.CommissionOverride, opts Options) ([]domain.ShopReport, domain.DeliveryReport) {
	return BuildShopReports(lines, overrides, opts), BuildDeliveryReport(lines)
}

// parseFloatField coerces a malformed price field to 0 rather than failing.
func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseIntField coerces a malformed quantity field to 0 rather than failing.
func parseIntField(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// dateOnly trims an ISO-ish timestamp down to its date part. Formatting for
// display is the consumer's job.
func dateOnly(s string) string {
	if i := strings.IndexAny(s, " T"); i >= 0 {
		return s[:i]
	}
	return s
}
