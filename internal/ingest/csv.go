// internal/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// ErrNoData is returned when an export has a header but no rows, or no header
// at all.
var ErrNoData = errors.New("order export contains no data rows")

// ParseOrders reads an order export and returns one RawOrderLine per row.
// Headers are normalized first, so "financial_status" and "Financial Status"
// exports parse identically. Per-row data problems degrade to defaults; only
// a structurally unreadable file is an error.
func ParseOrders(r io.Reader) ([]domain.RawOrderLine, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read export header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[NormalizeHeader(col)] = i
	}

	field := func(record []string, name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var lines []domain.RawOrderLine
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read export row: %w", err)
		}

		refunded := strings.EqualFold(field(record, colRefunded), "true")
		refundedQty, _ := strconv.Atoi(field(record, colRefundedQuantity))

		lines = append(lines, domain.RawOrderLine{
			OrderNumber:       field(record, colOrderNumber),
			CreatedAt:         field(record, colCreatedAt),
			PaidAt:            field(record, colPaidAt),
			LineItemName:      firstNonEmpty(field(record, colLineItemName), field(record, colProductTitle)),
			LineItemPrice:     field(record, colLineItemPrice),
			LineItemQuantity:  firstNonEmpty(field(record, colLineItemQuantity), field(record, colNetItems)),
			FinancialStatus:   field(record, colFinancialStatus),
			FulfillmentStatus: field(record, colFulfillmentStatus),
			Vendor:            field(record, colVendor),
			BillingName:       field(record, colBillingName),
			ShippingName:      field(record, colShippingName),
			Refunded:          refunded,
			RefundedQuantity:  refundedQty,
		})
	}

	if len(lines) == 0 {
		return nil, ErrNoData
	}
	return NormalizeLines(lines), nil
}

// NormalizeLines backfills fields that exports commonly leave blank on
// follow-up rows of multi-line orders: the vendor is copied from the first
// line of the same order, and missing price/quantity get safe defaults so a
// sparse row degrades instead of skewing the batch.
func NormalizeLines(lines []domain.RawOrderLine) []domain.RawOrderLine {
	vendorByOrder := make(map[string]string)
	for _, line := range lines {
		if line.OrderNumber == "" || line.Vendor == "" {
			continue
		}
		if _, ok := vendorByOrder[line.OrderNumber]; !ok {
			vendorByOrder[line.OrderNumber] = line.Vendor
		}
	}

	out := make([]domain.RawOrderLine, len(lines))
	for i, line := range lines {
		if line.Vendor == "" {
			line.Vendor = vendorByOrder[line.OrderNumber]
		}
		if line.LineItemPrice == "" {
			line.LineItemPrice = "0.00"
		}
		if line.LineItemQuantity == "" {
			line.LineItemQuantity = "1"
		}
		out[i] = line
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
