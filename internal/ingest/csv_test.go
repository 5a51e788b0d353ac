package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"financial_status":            "Financial Status",
		"Financial Status":            "Financial Status",
		" Fulfillment Status ":        "Lineitem fulfillment status",
		"lineitem_fulfillment_status": "Lineitem fulfillment status",
		"Line Item Name":              "Lineitem name",
		"Vendor":                      "Vendor",
		"Something Else":              "Something Else",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), "input %q", in)
	}
}

func TestParseOrders(t *testing.T) {
	input := strings.Join([]string{
		"Name,created_at,paid_at,lineitem_name,lineitem_price,lineitem_quantity,financial_status,fulfillment status,Vendor,billing_name,shipping_name",
		`4310,2024-03-01 09:00:00,2024-03-01 09:01:00,Truffle Box,50.00,2,paid,fulfilled,Nu Chocolat,Jane Doe,Jane Doe`,
		`4311,2024-03-02 09:00:00,2024-03-02 09:01:00,Scarf item 1/2,20.00,1,refunded,fulfilled,Houndstooth,Sam Roe,Sam Roe`,
		`4311,2024-03-02 09:00:00,2024-03-02 09:01:00,Hat item 2/2,30.00,1,refunded,unfulfilled,,Sam Roe,Sam Roe`,
	}, "\n")

	lines, err := ParseOrders(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "4310", lines[0].OrderNumber)
	assert.Equal(t, "Truffle Box", lines[0].LineItemName)
	assert.Equal(t, "paid", lines[0].FinancialStatus)
	assert.Equal(t, "fulfilled", lines[0].FulfillmentStatus)

	// The blank vendor on the second line of order 4311 is backfilled from
	// its sibling.
	assert.Equal(t, "Houndstooth", lines[2].Vendor)
}

func TestParseOrdersDefaults(t *testing.T) {
	input := strings.Join([]string{
		"Name,Lineitem name,Lineitem price,Lineitem quantity,Vendor",
		`4312,Sticker,,,Acme Co`,
	}, "\n")

	lines, err := ParseOrders(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "0.00", lines[0].LineItemPrice)
	assert.Equal(t, "1", lines[0].LineItemQuantity)
}

func TestParseOrdersRefundColumns(t *testing.T) {
	input := strings.Join([]string{
		"Name,Lineitem name,Lineitem price,Lineitem quantity,Refunded,refunded_quantity",
		`4313,Mug,12.00,2,true,1`,
		`4314,Bowl,20.00,1,false,0`,
	}, "\n")

	lines, err := ParseOrders(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Refunded)
	assert.Equal(t, 1, lines[0].RefundedQuantity)
	assert.False(t, lines[1].Refunded)
}

func TestParseOrdersEmpty(t *testing.T) {
	_, err := ParseOrders(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseOrders(strings.NewReader("Name,Vendor\n"))
	assert.ErrorIs(t, err, ErrNoData)
}
