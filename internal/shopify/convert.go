// internal/shopify/convert.go
package shopify

import (
	"strconv"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// FlattenOrders converts API orders to the flat one-row-per-line-item shape
// the engine consumes. Refund quantities are summed per line item across all
// of the order's refunds and attached as native refund info, which the return
// engine treats as authoritative.
func FlattenOrders(orders []Order) []domain.RawOrderLine {
	var lines []domain.RawOrderLine
	for _, order := range orders {
		refundedQty := make(map[int64]int)
		for _, refund := range order.Refunds {
			for _, rli := range refund.RefundLineItems {
				refundedQty[rli.LineItemID] += rli.Quantity
			}
		}

		billing, shipping := "", ""
		if order.BillingAddress != nil {
			billing = order.BillingAddress.Name
		}
		if order.ShippingAddress != nil {
			shipping = order.ShippingAddress.Name
		}

		for _, item := range order.LineItems {
			qty := refundedQty[item.ID]
			lines = append(lines, domain.RawOrderLine{
				OrderNumber:       order.Name,
				CreatedAt:         order.CreatedAt,
				PaidAt:            order.ProcessedAt,
				LineItemName:      item.Title,
				LineItemPrice:     item.Price,
				LineItemQuantity:  strconv.Itoa(item.Quantity),
				FinancialStatus:   order.FinancialStatus,
				FulfillmentStatus: item.FulfillmentStatus,
				Vendor:            item.Vendor,
				BillingName:       billing,
				ShippingName:      shipping,
				Refunded:          qty > 0,
				RefundedQuantity:  qty,
			})
		}
	}
	return lines
}
