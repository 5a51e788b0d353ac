// internal/report/summary.go
package report

import "github.com/mytimarket/shop-reports/internal/domain"

// FoldSummary accumulates one priced line into a shop summary. Delivery
// surcharges fold into gross, net, commission and payment so the externally
// visible totals reconcile to the penny, but they leave quantity and returns
// untouched: those columns describe merchandise only.
func FoldSummary(acc domain.ShopSummary, line domain.PricedLine) domain.ShopSummary {
	acc.TotalOrders++
	acc.TotalGrossSales += line.GrossSales
	acc.TotalNetSales += line.NetSales
	acc.TotalCommission += line.CommissionAmount
	acc.TotalPayment += line.TotalPayment
	if !line.IsDeliveryCharge {
		acc.TotalQuantity += line.Quantity
		acc.TotalReturns += line.Returns
	}
	return acc
}

// DeliveryDebits sums the delivery surcharge debits inside a shop report.
// Net payment, the amount actually owed to the shop, is
// Summary.TotalPayment minus this value's sign contribution; exporters use it
// for the footer rows.
func DeliveryDebits(r domain.ShopReport) float64 {
	var total float64
	for _, o := range r.Orders {
		if o.IsDeliveryCharge {
			if o.TotalPayment < 0 {
				total -= o.TotalPayment
			} else {
				total += o.TotalPayment
			}
		}
	}
	return total
}
