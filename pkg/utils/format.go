// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPrice renders a price with trailing zeros trimmed.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 5, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// FormatLot renders a lot size with two decimals.
func FormatLot(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatOptionalPrice renders a nullable price, "-" when absent.
func FormatOptionalPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatPrice(*v)
}
