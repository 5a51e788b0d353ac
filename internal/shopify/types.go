// internal/shopify/types.go
package shopify

// Order is the subset of the platform's order resource the report engine
// needs, one JSON object per order with nested line items and refunds.
type Order struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	CreatedAt       string   `json:"created_at"`
	ProcessedAt     string   `json:"processed_at"`
	FinancialStatus string   `json:"financial_status"`
	LineItems       []LineItem `json:"line_items"`
	Refunds         []Refund   `json:"refunds"`
	BillingAddress  *Address   `json:"billing_address"`
	ShippingAddress *Address   `json:"shipping_address"`
}

type LineItem struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	Quantity          int    `json:"quantity"`
	Vendor            string `json:"vendor"`
	FulfillmentStatus string `json:"fulfillment_status"`
}

type Refund struct {
	ID              int64            `json:"id"`
	RefundLineItems []RefundLineItem `json:"refund_line_items"`
}

type RefundLineItem struct {
	LineItemID int64 `json:"line_item_id"`
	Quantity   int   `json:"quantity"`
}

type Address struct {
	Name string `json:"name"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}

type shopResponse struct {
	Shop struct {
		Name   string `json:"name"`
		Domain string `json:"domain"`
	} `json:"shop"`
}
