// internal/report/natsort.go
package report

import "unicode"

// CompareNatural orders strings the way a human reads order numbers: digit
// runs compare numerically, everything else case-insensitively, so "#9" sorts
// before "#10". Returns -1, 0 or 1. Ties on the folded comparison fall back
// to the raw strings so the ordering is total.
func CompareNatural(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			// Compare the whole digit runs as numbers.
			si, sj := i, j
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na, nb := trimLeadingZeros(ra[si:i]), trimLeadingZeros(rb[sj:j])
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			for k := range na {
				if na[k] != nb[k] {
					if na[k] < nb[k] {
						return -1
					}
					return 1
				}
			}
			continue
		}
		fa, fb := unicode.ToLower(ca), unicode.ToLower(cb)
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(ra):
		return 1
	case j < len(rb):
		return -1
	}
	// Equal under folding; keep the ordering total.
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func trimLeadingZeros(digits []rune) []rune {
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	return digits
}
