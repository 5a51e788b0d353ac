package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mytimarket/shop-reports/internal/domain"
)

func TestCommissionTableResolve(t *testing.T) {
	table := NewCommissionTable([]domain.CommissionOverride{
		{ShopName: "Nu Chocolat", CommissionPercentage: 15},
		{ShopName: "acme co", CommissionPercentage: 12.5},
	})

	assert.Equal(t, 15.0, table.Resolve("Nu Chocolat"))
	assert.Equal(t, 15.0, table.Resolve("NUCHOCOLAT"), "lookup goes through key normalization")
	assert.Equal(t, 12.5, table.Resolve("Acme Co"))

	// No entry falls back to the default.
	assert.Equal(t, DefaultCommissionPct, table.Resolve("Unmapped Shop"))
}

func TestCommissionTableEmpty(t *testing.T) {
	table := NewCommissionTable(nil)
	assert.Equal(t, DefaultCommissionPct, table.Resolve("Anything"))
}
