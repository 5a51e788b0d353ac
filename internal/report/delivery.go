// internal/report/delivery.go
package report

import (
	"sort"
	"strings"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// DeliveryCharge is the fixed fee for every delivery/pickup surcharge line.
// The raw price field of such lines is ignored.
const DeliveryCharge = 7.0

// deliveryKeywords is the single source of truth for surcharge detection,
// shared by line processing and the delivery aggregator. Order matters:
// ExtractShopFromTitle splits on the first keyword found in this order.
var deliveryKeywords = []string{"local delivery", "pickup", "rapid delivery"}

// deliveryBareWords are used by the word-scan fallback when no full keyword
// prefix yields a shop name.
var deliveryBareWords = map[string]struct{}{
	"local":  {},
	"pickup": {},
	"rapid":  {},
}

// IsDeliverySurcharge reports whether a line item is a delivery/pickup
// surcharge rather than a merchandise sale.
func IsDeliverySurcharge(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range deliveryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractShopFromTitle resolves the shop a delivery surcharge belongs to.
// The text before the first delivery keyword is the shop name; if that prefix
// is empty the bare words "local"/"pickup"/"rapid" are located instead and
// everything before the earliest one is taken. The vendor field is the last
// resort, and never when it is the delivery service itself.
func ExtractShopFromTitle(title, fallbackVendor string) string {
	lower := strings.ToLower(title)

	for _, kw := range deliveryKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		if prefix := strings.TrimSpace(lower[:idx]); prefix != "" {
			return NormalizeShopDisplay(prefix)
		}
		break
	}

	words := strings.Fields(lower)
	for i, w := range words {
		if _, ok := deliveryBareWords[w]; ok {
			if i > 0 {
				return NormalizeShopDisplay(strings.Join(words[:i], " "))
			}
			break
		}
	}

	if vendor := strings.TrimSpace(fallbackVendor); vendor != "" && !IsInHouseVendor(vendor) {
		return NormalizeShopDisplay(vendor)
	}
	return UnknownShop
}

// BuildDeliveryReport collects every delivery surcharge in the batch into the
// cross-shop delivery report: chronologically sorted lines, per-shop subtotals
// and a grand total. Subtotals are accumulated by normalized shop key and
// presented under the display name.
func BuildDeliveryReport(lines []domain.RawOrderLine) domain.DeliveryReport {
	orders := make([]domain.DeliveryLine, 0)
	for _, line := range lines {
		if !IsDeliverySurcharge(line.LineItemName) {
			continue
		}
		date := dateOnly(line.PaidAt)
		if date == "" {
			date = dateOnly(line.CreatedAt)
		}
		orders = append(orders, domain.DeliveryLine{
			OrderNumber:    line.OrderNumber,
			OrderDate:      date,
			BillingName:    line.BillingName,
			DeliveryName:   line.ShippingName,
			DeliveryCharge: DeliveryCharge,
			ShopName:       ExtractShopFromTitle(line.LineItemName, line.Vendor),
		})
	}

	// ISO-ish dates compare correctly as strings; the stable sort keeps
	// input order for same-day deliveries.
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate < orders[j].OrderDate
	})

	type shopTotals struct {
		display string
		count   int
		charges float64
	}
	byKey := make(map[string]*shopTotals)
	var totalCharges float64
	for _, o := range orders {
		totalCharges += o.DeliveryCharge
		key := NormalizeShopKey(o.ShopName)
		t, ok := byKey[key]
		if !ok {
			t = &shopTotals{display: o.ShopName}
			byKey[key] = t
		}
		t.count++
		t.charges += o.DeliveryCharge
	}

	byShop := make(map[string]domain.DeliveryShopTotals, len(byKey))
	for _, t := range byKey {
		byShop[t.display] = domain.DeliveryShopTotals{
			TotalDeliveries: t.count,
			TotalCharges:    t.charges,
		}
	}

	return domain.DeliveryReport{
		Orders: orders,
		Summary: domain.DeliverySummary{
			TotalDeliveries: len(orders),
			TotalCharges:    totalCharges,
			ByShop:          byShop,
		},
	}
}
