// internal/report/commission.go
package report

import "github.com/mytimarket/shop-reports/internal/domain"

// DefaultCommissionPct applies to any shop without an override entry.
const DefaultCommissionPct = 10.0

// CommissionTable maps normalized shop keys to override percentages.
type CommissionTable map[string]float64

// NewCommissionTable builds a lookup table from an override list. Keys are
// normalized so "Nu Chocolat" and "nuchocolat" resolve to the same entry.
func NewCommissionTable(overrides []domain.CommissionOverride) CommissionTable {
	table := make(CommissionTable, len(overrides))
	for _, o := range overrides {
		table[NormalizeShopKey(o.ShopName)] = o.CommissionPercentage
	}
	return table
}

// Resolve returns the shop's override percentage, or the default when the
// shop has no entry. In-house vendor handling lives in ProcessLine because it
// depends on the line's vendor field, not the shop grouping key.
func (t CommissionTable) Resolve(shopName string) float64 {
	if pct, ok := t[NormalizeShopKey(shopName)]; ok {
		return pct
	}
	return DefaultCommissionPct
}
