// internal/report/daterange.go
package report

import (
	"strings"
	"time"

	"github.com/mytimarket/shop-reports/internal/domain"
)

// Export timestamps show up in a handful of layouts depending on the source;
// try them in order.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ExtractDateRange derives the earliest and latest paid-at timestamps over a
// batch. Lines without a parseable paid date are skipped; a batch with none
// yields a nil pair.
func ExtractDateRange(lines []domain.RawOrderLine) domain.DateRange {
	var earliest, latest *time.Time
	for _, line := range lines {
		t, ok := parseTimestamp(line.PaidAt)
		if !ok {
			continue
		}
		if earliest == nil || t.Before(*earliest) {
			ts := t
			earliest = &ts
		}
		if latest == nil || t.After(*latest) {
			ts := t
			latest = &ts
		}
	}
	return domain.DateRange{Earliest: earliest, Latest: latest}
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
