package report

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytimarket/shop-reports/internal/domain"
)

func TestProcessLineStandardSale(t *testing.T) {
	line := domain.RawOrderLine{
		OrderNumber:       "4301",
		CreatedAt:         "2024-03-01 10:15:00",
		PaidAt:            "2024-03-01 10:16:00",
		LineItemName:      "Dark Chocolate Bar",
		LineItemPrice:     "50.00",
		LineItemQuantity:  "2",
		FinancialStatus:   "paid",
		FulfillmentStatus: "fulfilled",
		Vendor:            "Nu Chocolat",
	}
	got := ProcessLine(line, 10, []domain.RawOrderLine{line}, Options{})

	assert.InDelta(t, 100.0, got.GrossSales, 1e-9)
	assert.Zero(t, got.Returns)
	assert.InDelta(t, 100.0, got.NetSales, 1e-9)
	assert.InDelta(t, 10.0, got.CommissionAmount, 1e-9)
	assert.InDelta(t, 90.0, got.TotalPayment, 1e-9)
	assert.Equal(t, "2024-03-01", got.OrderDate)
	assert.Equal(t, "2024-03-01", got.PaidAt)
	assert.False(t, got.IsDeliveryCharge)
}

func TestProcessLineDeliverySurcharge(t *testing.T) {
	line := domain.RawOrderLine{
		OrderNumber:      "4302",
		LineItemName:     "Acme Co Local Delivery",
		LineItemPrice:    "999.00", // ignored
		LineItemQuantity: "4",      // ignored
	}
	got := ProcessLine(line, 25, []domain.RawOrderLine{line}, Options{})

	assert.True(t, got.IsDeliveryCharge)
	assert.Equal(t, DeliveryCharge, got.ItemPrice)
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, DeliveryCharge, got.GrossSales)
	assert.Zero(t, got.CommissionPercentage)
	assert.Zero(t, got.CommissionAmount)
	assert.Equal(t, -DeliveryCharge, got.TotalPayment)
}

func TestProcessLineMalformedNumbers(t *testing.T) {
	line := domain.RawOrderLine{
		OrderNumber:      "4303",
		LineItemName:     "Mystery Item",
		LineItemPrice:    "n/a",
		LineItemQuantity: "two",
	}
	got := ProcessLine(line, 10, []domain.RawOrderLine{line}, Options{})
	assert.Zero(t, got.ItemPrice)
	assert.Zero(t, got.Quantity)
	assert.Zero(t, got.GrossSales)
	assert.Zero(t, got.TotalPayment)
}

func TestProcessLineInHouseVendor(t *testing.T) {
	line := domain.RawOrderLine{
		OrderNumber:      "4304",
		LineItemName:     "Gift Card",
		LineItemPrice:    "40.00",
		LineItemQuantity: "1",
		Vendor:           "Myti Concept Shop",
	}
	got := ProcessLine(line, 10, []domain.RawOrderLine{line}, Options{})
	assert.Zero(t, got.CommissionPercentage)
	assert.Zero(t, got.CommissionAmount)
	assert.InDelta(t, 40.0, got.TotalPayment, 1e-9)
}

func testBatch() []domain.RawOrderLine {
	return []domain.RawOrderLine{
		{OrderNumber: "4310", CreatedAt: "2024-03-01 09:00:00", PaidAt: "2024-03-01 09:01:00", LineItemName: "Truffle Box", LineItemPrice: "50.00", LineItemQuantity: "2", FinancialStatus: "paid", FulfillmentStatus: "fulfilled", Vendor: "Nu Chocolat"},
		{OrderNumber: "4311", CreatedAt: "2024-03-02 09:00:00", PaidAt: "2024-03-02 09:01:00", LineItemName: "Scarf item 1/2", LineItemPrice: "20.00", LineItemQuantity: "1", FinancialStatus: "refunded", FulfillmentStatus: "fulfilled", Vendor: "Houndstooth"},
		{OrderNumber: "4311", CreatedAt: "2024-03-02 09:00:00", PaidAt: "2024-03-02 09:01:00", LineItemName: "Hat item 2/2", LineItemPrice: "30.00", LineItemQuantity: "1", FinancialStatus: "refunded", FulfillmentStatus: "unfulfilled", Vendor: "Houndstooth"},
		{OrderNumber: "4312", CreatedAt: "2024-03-02 11:00:00", PaidAt: "2024-03-02 11:01:00", LineItemName: "Acme Co Local Delivery", LineItemPrice: "0.00", LineItemQuantity: "1", Vendor: ""},
		{OrderNumber: "4313", CreatedAt: "2024-03-03 11:00:00", PaidAt: "2024-03-03 11:01:00", LineItemName: "Yarn Bundle", LineItemPrice: "15.50", LineItemQuantity: "3", FinancialStatus: "paid", FulfillmentStatus: "fulfilled", Vendor: "Must Love Yarn"},
		{OrderNumber: "4314", CreatedAt: "2024-03-03 12:00:00", PaidAt: "2024-03-03 12:01:00", LineItemName: "Notebook", LineItemPrice: "8.00", LineItemQuantity: "1", FinancialStatus: "paid", FulfillmentStatus: "fulfilled", Vendor: "ACME CO"},
		{OrderNumber: "4315", CreatedAt: "2024-03-04 12:00:00", PaidAt: "2024-03-04 12:01:00", LineItemName: "Pen Set", LineItemPrice: "12.00", LineItemQuantity: "2", FinancialStatus: "paid", FulfillmentStatus: "fulfilled", Vendor: "Acme Co"},
	}
}

func TestBuildShopReportsGroupingAndOrder(t *testing.T) {
	reports := BuildShopReports(testBatch(), nil, Options{})

	names := make([]string, 0, len(reports))
	for _, r := range reports {
		names = append(names, r.ShopName)
	}
	// Alphabetical; vendor case variants and the delivery line all group
	// under one Acme Co.
	assert.Equal(t, []string{"Acme Co", "Houndstooth", "Must Love Yarn", "Nu Chocolat"}, names)

	var acme domain.ShopReport
	for _, r := range reports {
		if r.ShopName == "Acme Co" {
			acme = r
		}
	}
	require.Len(t, acme.Orders, 3)
	assert.Equal(t, "4312", acme.Orders[0].OrderNumber)
	assert.True(t, acme.Orders[0].IsDeliveryCharge)
	assert.Equal(t, "4314", acme.Orders[1].OrderNumber)
	assert.Equal(t, "4315", acme.Orders[2].OrderNumber)

	// The delivery debit folds into payment but not into the merchandise
	// columns.
	assert.Equal(t, 3, acme.Summary.TotalOrders)
	assert.Equal(t, 3, acme.Summary.TotalQuantity) // 1 notebook + 2 pens
	assert.Zero(t, acme.Summary.TotalReturns)
	wantPayment := 8.0*0.9 + 24.0*0.9 - DeliveryCharge
	assert.InDelta(t, wantPayment, acme.Summary.TotalPayment, 1e-6)
}

func TestBuildShopReportsNaturalOrderSort(t *testing.T) {
	lines := []domain.RawOrderLine{
		{OrderNumber: "#10", LineItemName: "A", LineItemPrice: "1", LineItemQuantity: "1", Vendor: "Shop"},
		{OrderNumber: "#9", LineItemName: "B", LineItemPrice: "1", LineItemQuantity: "1", Vendor: "Shop"},
		{OrderNumber: "#100", LineItemName: "C", LineItemPrice: "1", LineItemQuantity: "1", Vendor: "Shop"},
	}
	reports := BuildShopReports(lines, nil, Options{})
	require.Len(t, reports, 1)
	var got []string
	for _, o := range reports[0].Orders {
		got = append(got, o.OrderNumber)
	}
	assert.Equal(t, []string{"#9", "#10", "#100"}, got)
}

func TestReconciliationInvariant(t *testing.T) {
	lines := testBatch()
	reports := BuildShopReports(lines, []domain.CommissionOverride{
		{ShopName: "Nu Chocolat", CommissionPercentage: 15},
	}, Options{})

	var summaryTotal, lineTotal float64
	for _, r := range reports {
		summaryTotal += r.Summary.TotalPayment
		for _, o := range r.Orders {
			lineTotal += o.TotalPayment
		}
	}
	assert.InDelta(t, lineTotal, summaryTotal, 1e-6)
}

func TestGenerateIsIdempotent(t *testing.T) {
	lines := testBatch()
	shops1, delivery1 := Generate(lines, nil, Options{})
	shops2, delivery2 := Generate(lines, nil, Options{})
	assert.True(t, reflect.DeepEqual(shops1, shops2))
	assert.True(t, reflect.DeepEqual(delivery1, delivery2))
}

func TestGenerateEmptyBatch(t *testing.T) {
	shops, delivery := Generate(nil, nil, Options{})
	assert.Empty(t, shops)
	assert.Empty(t, delivery.Orders)
	assert.Equal(t, 0, delivery.Summary.TotalDeliveries)
	assert.Zero(t, delivery.Summary.TotalCharges)
}

func TestReturnBound(t *testing.T) {
	reports := BuildShopReports(testBatch(), nil, Options{})
	for _, r := range reports {
		for _, o := range r.Orders {
			if o.IsDeliveryCharge {
				continue
			}
			assert.GreaterOrEqual(t, o.Returns, 0.0)
			assert.LessOrEqual(t, o.Returns, o.GrossSales+1e-9)
		}
	}
}

func TestUnknownShopLinesAreKept(t *testing.T) {
	lines := []domain.RawOrderLine{
		{OrderNumber: "4320", LineItemName: "Stray Item", LineItemPrice: "5.00", LineItemQuantity: "1"},
	}
	reports := BuildShopReports(lines, nil, Options{})
	require.Len(t, reports, 1)
	assert.Equal(t, UnknownShop, reports[0].ShopName)
	require.Len(t, reports[0].Orders, 1)
}

func TestDeliveryDebits(t *testing.T) {
	reports := BuildShopReports(testBatch(), nil, Options{})
	for _, r := range reports {
		if r.ShopName == "Acme Co" {
			assert.InDelta(t, DeliveryCharge, DeliveryDebits(r), 1e-9)
		}
	}
}
