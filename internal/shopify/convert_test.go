package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenOrders(t *testing.T) {
	orders := []Order{
		{
			Name:            "4401",
			CreatedAt:       "2024-03-01T09:00:00Z",
			ProcessedAt:     "2024-03-01T09:01:00Z",
			FinancialStatus: "partially_refunded",
			BillingAddress:  &Address{Name: "Jane Doe"},
			ShippingAddress: &Address{Name: "Jane Doe"},
			LineItems: []LineItem{
				{ID: 1, Title: "Truffle Box", Price: "25.00", Quantity: 2, Vendor: "Nu Chocolat", FulfillmentStatus: "fulfilled"},
				{ID: 2, Title: "Cocoa Tin", Price: "10.00", Quantity: 1, Vendor: "Nu Chocolat", FulfillmentStatus: "fulfilled"},
			},
			Refunds: []Refund{
				{RefundLineItems: []RefundLineItem{{LineItemID: 1, Quantity: 1}}},
				{RefundLineItems: []RefundLineItem{{LineItemID: 1, Quantity: 1}}},
			},
		},
	}

	lines := FlattenOrders(orders)
	require.Len(t, lines, 2)

	// Refund quantities accumulate across refunds of the same line item.
	assert.True(t, lines[0].Refunded)
	assert.Equal(t, 2, lines[0].RefundedQuantity)
	assert.Equal(t, "4401", lines[0].OrderNumber)
	assert.Equal(t, "2", lines[0].LineItemQuantity)
	assert.Equal(t, "partially_refunded", lines[0].FinancialStatus)
	assert.Equal(t, "Jane Doe", lines[0].BillingName)

	assert.False(t, lines[1].Refunded)
	assert.Zero(t, lines[1].RefundedQuantity)
}

func TestNextPageInfo(t *testing.T) {
	link := `<https://x.myshopify.com/admin/api/2024-01/orders.json?limit=250&page_info=abc123>; rel="next", <https://x.myshopify.com/...>; rel="previous"`
	assert.Equal(t, "abc123", nextPageInfo(link))
	assert.Equal(t, "", nextPageInfo(`<https://x>; rel="previous"`))
	assert.Equal(t, "", nextPageInfo(""))
}
