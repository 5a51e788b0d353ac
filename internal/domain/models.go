// internal/domain/models.go
package domain

import "time"

// RawOrderLine is one row of an order export: a single line item of a single
// order. Several lines can share one OrderNumber; those lines must be handed
// to the engine together so return inference sees the whole order.
type RawOrderLine struct {
	OrderNumber       string `json:"order_number"`
	CreatedAt         string `json:"created_at"`
	PaidAt            string `json:"paid_at"`
	LineItemName      string `json:"line_item_name"`
	LineItemPrice     string `json:"line_item_price"`
	LineItemQuantity  string `json:"line_item_quantity"`
	FinancialStatus   string `json:"financial_status"`
	FulfillmentStatus string `json:"fulfillment_status"`
	Vendor            string `json:"vendor"`
	BillingName       string `json:"billing_name"`
	ShippingName      string `json:"shipping_name"`

	// Refund info reported by the platform API. Lines parsed from a CSV
	// export leave Refunded false and the engine falls back to status
	// inference.
	Refunded         bool `json:"refunded,omitempty"`
	RefundedQuantity int  `json:"refunded_quantity,omitempty"`
}

// PricedLine is a fully priced and commissioned line item.
type PricedLine struct {
	OrderNumber          string  `json:"order_number"`
	OrderDate            string  `json:"order_date"`
	PaidAt               string  `json:"paid_at"`
	ProductTitle         string  `json:"product_title"`
	ItemPrice            float64 `json:"item_price"`
	Quantity             int     `json:"quantity"`
	GrossSales           float64 `json:"gross_sales"`
	Returns              float64 `json:"returns"`
	NetSales             float64 `json:"net_sales"`
	CommissionPercentage float64 `json:"commission_percentage"`
	CommissionAmount     float64 `json:"commission_amount"`
	TotalPayment         float64 `json:"total_payment"`
	IsDeliveryCharge     bool    `json:"is_delivery_charge"`
}

// ShopSummary is the running fold over a shop's priced lines. Delivery lines
// contribute to gross/net/payment but not to quantity or returns.
type ShopSummary struct {
	TotalOrders     int     `json:"total_orders"`
	TotalQuantity   int     `json:"total_quantity"`
	TotalGrossSales float64 `json:"total_gross_sales"`
	TotalReturns    float64 `json:"total_returns"`
	TotalNetSales   float64 `json:"total_net_sales"`
	TotalCommission float64 `json:"total_commission"`
	TotalPayment    float64 `json:"total_payment"`
}

// ShopReport is one shop's view of the batch.
type ShopReport struct {
	ShopName string       `json:"shop_name"`
	Orders   []PricedLine `json:"orders"`
	Summary  ShopSummary  `json:"summary"`
}

// DeliveryLine is one delivery/pickup surcharge, attributed to the shop the
// delivery was run for.
type DeliveryLine struct {
	OrderNumber    string  `json:"order_number"`
	OrderDate      string  `json:"order_date"`
	BillingName    string  `json:"billing_name"`
	DeliveryName   string  `json:"delivery_name"`
	DeliveryCharge float64 `json:"delivery_charge"`
	ShopName       string  `json:"shop_name"`
}

// DeliveryShopTotals is the per-shop slice of the delivery summary.
type DeliveryShopTotals struct {
	TotalDeliveries int     `json:"total_deliveries"`
	TotalCharges    float64 `json:"total_charges"`
}

type DeliverySummary struct {
	TotalDeliveries int                           `json:"total_deliveries"`
	TotalCharges    float64                       `json:"total_charges"`
	ByShop          map[string]DeliveryShopTotals `json:"by_shop"`
}

// DeliveryReport collects every delivery surcharge in the batch, across all
// shops, in chronological order.
type DeliveryReport struct {
	Orders  []DeliveryLine  `json:"orders"`
	Summary DeliverySummary `json:"summary"`
}

// CommissionOverride sets a shop-specific commission percentage. Lookup is
// keyed by the normalized shop name, never the display form.
type CommissionOverride struct {
	ShopName             string  `json:"shop_name" db:"shop_name"`
	CommissionPercentage float64 `json:"commission_percentage" db:"commission_pct"`
}

// DateRange is the paid-at span of a batch. Both fields are nil when no line
// carries a paid timestamp.
type DateRange struct {
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

// ReportBundle is the full output of one engine run, as served and cached.
type ReportBundle struct {
	Shops       []ShopReport   `json:"shops"`
	Delivery    DeliveryReport `json:"delivery"`
	DateRange   DateRange      `json:"date_range"`
	LineCount   int            `json:"line_count"`
	GeneratedAt time.Time      `json:"generated_at"`
}
