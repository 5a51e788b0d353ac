// internal/report/returns.go
package report

import (
	"regexp"
	"strings"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// ReturnOverride pins one order/item-number pair that is always treated as
// returned. These exist to correct specific historical exports whose status
// fields were wrong; they are data, not a general rule.
type ReturnOverride struct {
	OrderNumber string
	ItemNumber  string
}

// LegacyReturnOverrides carries the two corrections inherited from the manual
// reconciliation era. Options.ReturnOverrides replaces this list when set;
// pass an empty slice to disable the overrides entirely.
var LegacyReturnOverrides = []ReturnOverride{
	{OrderNumber: "4268", ItemNumber: "6"},
	{OrderNumber: "4280", ItemNumber: "16"},
}

// Matches "item N" and "item N/M" suffixes in line titles.
var itemNumberPattern = regexp.MustCompile(`(?i)item\s+(\d+)(?:/\d+)?`)

// itemNumber extracts N from an "item N" or "item N/M" title suffix, or
// returns "" when the title has none.
func itemNumber(title string) string {
	m := itemNumberPattern.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return m[1]
}

// CalculateReturns decides whether a line item was returned and the amount to
// subtract from its gross sales. siblings must hold every line of the same
// order, including the line itself; a nil slice is treated as the line alone.
//
// The signals, in priority order:
//  1. Native refund info from the platform API is authoritative.
//  2. No "refund" in any sibling's financial status means no refund event,
//     so nothing on the order was returned.
//  3. Within a refunded order, this line's fulfillment status decides:
//     pending/unfulfilled/return/refund mark it returned.
//  4. In multi-item orders, "return"/"refund" in the line's own title can
//     upgrade the line to returned; nothing ever downgrades it.
func CalculateReturns(line domain.RawOrderLine, siblings []domain.RawOrderLine, opts Options) float64 {
	if line.Refunded {
		return parseFloatField(line.LineItemPrice) * float64(line.RefundedQuantity)
	}

	if len(siblings) == 0 {
		siblings = []domain.RawOrderLine{line}
	}

	forced := isForcedReturn(line, opts.returnOverrides())

	orderHasRefund := forced
	if !orderHasRefund {
		for _, s := range siblings {
			status := strings.ToLower(strings.TrimSpace(s.FinancialStatus))
			if strings.Contains(status, "refund") {
				orderHasRefund = true
				break
			}
		}
	}
	if !orderHasRefund {
		return 0
	}

	fulfillment := strings.ToLower(strings.TrimSpace(line.FulfillmentStatus))
	returned := forced ||
		strings.Contains(fulfillment, "pending") ||
		strings.Contains(fulfillment, "unfulfilled") ||
		strings.Contains(fulfillment, "return") ||
		strings.Contains(fulfillment, "refund")

	if !returned && len(siblings) > 1 {
		title := strings.ToLower(line.LineItemName)
		if strings.Contains(title, "return") || strings.Contains(title, "refund") {
			returned = true
		}
	}
	if !returned {
		return 0
	}

	price := parseFloatField(line.LineItemPrice)
	quantity := parseIntField(line.LineItemQuantity)
	return price * float64(quantity)
}

func isForcedReturn(line domain.RawOrderLine, overrides []ReturnOverride) bool {
	if len(overrides) == 0 {
		return false
	}
	num := itemNumber(line.LineItemName)
	if num == "" {
		return false
	}
	for _, o := range overrides {
		if o.OrderNumber == line.OrderNumber && o.ItemNumber == num {
			return true
		}
	}
	return false
}
