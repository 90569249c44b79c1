package utils

import (
	"fmt"
	"strconv"
)

// FormatBalance renders an amount with thousands separators, e.g. 1234567 -> "1,234,567"
func FormatBalance(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + string(out)
}

// FormatShortNotation renders large amounts compactly, e.g. 1500 -> "1.5K"
func FormatShortNotation(amount int64) string {
	abs := amount
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(amount)/1_000_000_000)) + "B"
	case abs >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(amount)/1_000_000)) + "M"
	case abs >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(amount)/1_000)) + "K"
	}
	return strconv.FormatInt(amount, 10)
}

func trimZero(s string) string {
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
