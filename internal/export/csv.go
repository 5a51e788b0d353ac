// internal/export/csv.go
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/report"
)

var shopReportHeader = []string{
	"Order Number",
	"Order Date",
	"Product Title",
	"Item Price",
	"Quantity",
	"Gross Sales",
	"Returns",
	"Net Sales",
	"Commission %",
	"Commission Amount",
	"Total Payment",
}

var deliveryReportHeader = []string{
	"Order Number",
	"Order Date",
	"Billing Name",
	"Delivery Name",
	"Delivery Charge",
	"Shop",
}

// WriteShopReportCSV renders one shop's report, line rows first, then the
// summary footer. Delivery debits get their own footer row so the shop can
// see how the net payment was reached.
func WriteShopReportCSV(w io.Writer, r domain.ShopReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(shopReportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, line := range r.Orders {
		row := []string{
			line.OrderNumber,
			line.OrderDate,
			line.ProductTitle,
			money(line.ItemPrice),
			fmt.Sprintf("%d", line.Quantity),
			money(line.GrossSales),
			money(line.Returns),
			money(line.NetSales),
			fmt.Sprintf("%.1f%%", line.CommissionPercentage),
			money(line.CommissionAmount),
			money(line.TotalPayment),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write line row: %w", err)
		}
	}

	s := r.Summary
	debits := report.DeliveryDebits(r)
	summaryRow := []string{
		"SUMMARY",
		"",
		fmt.Sprintf("%d orders", s.TotalOrders),
		"",
		fmt.Sprintf("%d", s.TotalQuantity),
		money(s.TotalGrossSales),
		money(s.TotalReturns),
		money(s.TotalNetSales),
		"",
		money(s.TotalCommission),
		money(s.TotalPayment + debits),
	}
	if err := cw.Write(summaryRow); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}
	if debits > 0 {
		deliveryRow := []string{
			"RAPID DELIVERY", "", "", "", "", "", "", "", "", "", money(-debits),
		}
		if err := cw.Write(deliveryRow); err != nil {
			return fmt.Errorf("write delivery row: %w", err)
		}
	}
	netRow := []string{
		"NET PAYMENT", "", "", "", "", "", "", "", "", "", money(s.TotalPayment),
	}
	if err := cw.Write(netRow); err != nil {
		return fmt.Errorf("write net payment row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WriteDeliveryReportCSV renders the cross-shop delivery report with per-shop
// subtotal footer rows.
func WriteDeliveryReportCSV(w io.Writer, r domain.DeliveryReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(deliveryReportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, line := range r.Orders {
		row := []string{
			line.OrderNumber,
			line.OrderDate,
			line.BillingName,
			line.DeliveryName,
			money(line.DeliveryCharge),
			line.ShopName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write delivery row: %w", err)
		}
	}

	for _, shop := range sortedShopKeys(r.Summary.ByShop) {
		totals := r.Summary.ByShop[shop]
		row := []string{
			"SUBTOTAL", "", "", shop,
			money(totals.TotalCharges),
			fmt.Sprintf("%d deliveries", totals.TotalDeliveries),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write subtotal row: %w", err)
		}
	}
	totalRow := []string{
		"TOTAL", "", "", "",
		money(r.Summary.TotalCharges),
		fmt.Sprintf("%d deliveries", r.Summary.TotalDeliveries),
	}
	if err := cw.Write(totalRow); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func sortedShopKeys(byShop map[string]domain.DeliveryShopTotals) []string {
	keys := make([]string, 0, len(byShop))
	for k := range byShop {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
