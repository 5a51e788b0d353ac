package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytimarket/shop-reports/internal/domain"
)

func TestExtractDateRange(t *testing.T) {
	lines := []domain.RawOrderLine{
		{PaidAt: "2024-03-05 10:00:00"},
		{PaidAt: "2024-03-01 09:30:00"},
		{PaidAt: ""}, // skipped
		{PaidAt: "2024-03-09T12:00:00Z"},
		{PaidAt: "not a date"}, // skipped
	}
	got := ExtractDateRange(lines)

	require.NotNil(t, got.Earliest)
	require.NotNil(t, got.Latest)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), got.Earliest.UTC())
	assert.Equal(t, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), got.Latest.UTC())
}

func TestExtractDateRangeEmpty(t *testing.T) {
	got := ExtractDateRange(nil)
	assert.Nil(t, got.Earliest)
	assert.Nil(t, got.Latest)

	got = ExtractDateRange([]domain.RawOrderLine{{PaidAt: ""}})
	assert.Nil(t, got.Earliest)
	assert.Nil(t, got.Latest)
}
