package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNatural(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"#9", "#10", -1},
		{"#10", "#9", 1},
		{"#10", "#10", 0},
		{"order-2", "order-12", -1},
		{"A2", "a10", -1}, // case-insensitive letters
		{"4268", "4268", 0},
		{"007", "7", -1}, // equal numerically, raw string breaks the tie
		{"abc", "abd", -1},
		{"abc", "abcd", -1},
		{"", "a", -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CompareNatural(c.a, c.b), "%q vs %q", c.a, c.b)
	}
}
