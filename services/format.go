package services

import (
	"fmt"
	"strings"
)

// FormatDKK formats a float64 amount into Danish kroner notation: thousands
// separated by dots, comma as decimal separator, trailing currency marker
// (e.g. 1.234.567,89 kr.). The result always includes exactly 2 decimals.
func FormatDKK(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := applyThousandsGrouping(intPart) + "," + decPart + " kr."
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts dots into an integer string, grouping every
// 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "." + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "." + result
	}

	return result
}

// FormatHours renders a seconds total as decimal hours with a "t" suffix,
// e.g. 5400 -> "1,50 t".
func FormatHours(seconds float64) string {
	raw := fmt.Sprintf("%.2f", seconds/3600)
	return strings.Replace(raw, ".", ",", 1) + " t"
}
