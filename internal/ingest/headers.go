// internal/ingest/headers.go
package ingest

import "strings"

// Canonical order-export column names. Exports from different sources label
// the same columns inconsistently; NormalizeHeader folds the known variants.
const (
	colOrderNumber       = "Name"
	colCreatedAt         = "Created at"
	colPaidAt            = "Paid at"
	colLineItemName      = "Lineitem name"
	colProductTitle      = "Product Title"
	colLineItemPrice     = "Lineitem price"
	colLineItemQuantity  = "Lineitem quantity"
	colNetItems          = "Net Items"
	colFinancialStatus   = "Financial Status"
	colFulfillmentStatus = "Lineitem fulfillment status"
	colVendor            = "Vendor"
	colBillingName       = "Billing Name"
	colShippingName      = "Shipping Name"
	colRefunded          = "Refunded"
	colRefundedQuantity  = "Refunded Quantity"
)

// NormalizeHeader maps a raw export header onto its canonical column name.
// Unknown headers pass through trimmed.
func NormalizeHeader(header string) string {
	trimmed := strings.TrimSpace(header)
	switch strings.ToLower(trimmed) {
	case "financial_status", "financial status":
		return colFinancialStatus
	case "lineitem_fulfillment_status", "lineitem fulfillment status", "fulfillment status":
		return colFulfillmentStatus
	case "lineitem_name", "lineitem name", "line item name":
		return colLineItemName
	case "lineitem_price", "lineitem price":
		return colLineItemPrice
	case "lineitem_quantity", "lineitem quantity":
		return colLineItemQuantity
	case "created_at", "created at":
		return colCreatedAt
	case "paid_at", "paid at":
		return colPaidAt
	case "billing_name", "billing name":
		return colBillingName
	case "shipping_name", "shipping name":
		return colShippingName
	case "refunded_quantity", "refunded quantity":
		return colRefundedQuantity
	}
	return trimmed
}
