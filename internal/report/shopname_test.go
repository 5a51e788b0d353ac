package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeShopKey(t *testing.T) {
	assert.Equal(t, "nuchocolat", NormalizeShopKey("Nu Chocolat"))
	assert.Equal(t, "nuchocolat", NormalizeShopKey("  nu\tChocolat "))
	assert.Equal(t, "", NormalizeShopKey(""))
	assert.Equal(t, "", NormalizeShopKey("   "))
}

func TestNormalizeShopKeyIsTheEqualityTest(t *testing.T) {
	// Labels that must compare equal everywhere they are compared.
	pairs := [][2]string{
		{"Acme Co", "ACME CO"},
		{"AcmeCo", "Acme Co"},
		{"Nu Chocolat", "nuchocolat"},
	}
	for _, p := range pairs {
		assert.Equal(t, NormalizeShopKey(p[0]), NormalizeShopKey(p[1]), "%q vs %q", p[0], p[1])
	}
}

func TestNormalizeShopDisplay(t *testing.T) {
	assert.Equal(t, "Acme Co", NormalizeShopDisplay("acme co"))
	assert.Equal(t, "Acme Co", NormalizeShopDisplay("  ACME   CO  "))
	assert.Equal(t, "Unknown Shop", NormalizeShopDisplay(""))
	assert.Equal(t, "Unknown Shop", NormalizeShopDisplay("   "))
}

func TestNormalizeShopDisplayAliases(t *testing.T) {
	cases := map[string]string{
		"nuchocolat":          "Nu Chocolat",
		"NU CHOCOLAT llc":     "Nu Chocolat",
		"homeport":            "HomePort",
		"Home-Port":           "Home-port", // no alias hit, plain title case
		"houndstooth vermont": "Houndstooth",
		"mustloveyarn":        "Must Love Yarn",
		"Must Love Yarn":      "Must Love Yarn",
		"myti concept shop":   "Myti",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeShopDisplay(in), "input %q", in)
	}
}

func TestNormalizeShopDisplayIsStable(t *testing.T) {
	inputs := []string{"acme co", "nu chocolat", "HOMEPORT", "", "Unknown Shop", "myti"}
	for _, in := range inputs {
		once := NormalizeShopDisplay(in)
		assert.Equal(t, once, NormalizeShopDisplay(once), "input %q", in)
	}
}

func TestIsInHouseVendor(t *testing.T) {
	assert.True(t, IsInHouseVendor("Myti"))
	assert.True(t, IsInHouseVendor("Myti Concept Shop"))
	assert.False(t, IsInHouseVendor("Nu Chocolat"))
	assert.False(t, IsInHouseVendor(""))
}
