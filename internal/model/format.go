package model

import "fmt"

// FormatUSD renders a nullable USD amount in a compact form, using
// placeholder for null.
func FormatUSD(v *float64, placeholder string) string {
	if v == nil {
		return placeholder
	}
	n := *v
	switch {
	case n >= 1e9:
		return fmt.Sprintf("$%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("$%.2fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("$%.1fK", n/1e3)
	default:
		return fmt.Sprintf("$%.0f", n)
	}
}

// FormatPercent renders a nullable percentage, using placeholder for
// null.
func FormatPercent(v *float64, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%.2f%%", *v)
}
