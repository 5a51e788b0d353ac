// internal/report/shopname.go
package report

import (
	"strings"
	"unicode"
)

// UnknownShop is the sentinel display name used when no usable shop label is
// present. Lines are never dropped for lacking an identity.
const UnknownShop = "Unknown Shop"

// shopAlias maps any label containing one of the match substrings to a single
// canonical display form. Matching is case-insensitive against the title-cased
// label. The table is ordered: the first alias that matches wins.
type shopAlias struct {
	contains []string
	display  string
}

var shopAliases = []shopAlias{
	{contains: []string{"nuchocolat", "nu chocolat"}, display: "Nu Chocolat"},
	{contains: []string{"homeport"}, display: "HomePort"},
	{contains: []string{"houndstooth"}, display: "Houndstooth"},
	{contains: []string{"mustloveyarn", "must love yarn"}, display: "Must Love Yarn"},
	{contains: []string{"myti"}, display: "Myti"},
}

// inHouseVendorKeys are the delivery service's own vendor labels, stored as
// normalized keys. Lines sold under these vendors never earn commission.
var inHouseVendorKeys = map[string]struct{}{
	"myti":            {},
	"myticonceptshop": {},
}

// NormalizeShopKey reduces a shop label to the key used for every equality
// check and lookup: lowercased with all whitespace removed. The key form is
// never displayed.
func NormalizeShopKey(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeShopDisplay trims and title-cases a shop label, then applies the
// alias table so every variant of a known shop renders identically. Blank
// input maps to UnknownShop. Cosmetic only: grouping and lookups always go
// through NormalizeShopKey.
func NormalizeShopDisplay(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return UnknownShop
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	normalized := strings.Join(words, " ")

	lower := strings.ToLower(normalized)
	for _, alias := range shopAliases {
		for _, m := range alias.contains {
			if strings.Contains(lower, m) {
				return alias.display
			}
		}
	}
	return normalized
}

// IsInHouseVendor reports whether the vendor label belongs to the delivery
// service itself.
func IsInHouseVendor(vendor string) bool {
	_, ok := inHouseVendorKeys[NormalizeShopKey(vendor)]
	return ok
}

func titleWord(w string) string {
	runes := []rune(w)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
