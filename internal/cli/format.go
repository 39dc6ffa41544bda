// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// CurrencySymbol prefixes every formatted amount. Set once at startup from config.
var CurrencySymbol = "₹"

const (
	isoDate   = "2006-01-02"
	shortDate = "Jan 2"
	longDate  = "Monday, January 2, 2006"
)

// FormatCurrency renders x with the currency symbol and exactly two decimals.
// e.g., 1234.5 -> "₹1234.50", -5 -> "₹-5.00"
func FormatCurrency(x float64) string {
	return CurrencySymbol + fixed(x, 2)
}

// fixed renders x with n decimals, rounding the exact binary value with
// halves away from zero: fixed(0.125, 2) is "0.13", fixed(1.005, 2) is "1.00".
func fixed(x float64, n int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', n, 64)
	}
	return new(big.Rat).SetFloat64(x).FloatString(n)
}

// SharePercent returns value as a percentage of sum, or 0 when sum is zero.
func SharePercent(value, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return 100 * value / sum
}

// FormatShare renders SharePercent with one decimal place.
// A zero sum renders as a bare "0".
func FormatShare(value, sum float64) string {
	if sum == 0 {
		return "0"
	}
	return fixed(SharePercent(value, sum), 1)
}

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC
// and must not be converted to local time, or the day can shift.
func ParseDate(iso string) (time.Time, error) {
	return time.Parse(isoDate, strings.TrimSpace(iso))
}

// ShortDate renders an ISO date as "Jan 5". Unparseable input is returned as-is.
func ShortDate(iso string) string {
	d, err := ParseDate(iso)
	if err != nil {
		return iso
	}
	return d.Format(shortDate)
}

// LongDate renders an ISO date as "Friday, January 5, 2024".
// Unparseable input is returned as-is.
func LongDate(iso string) string {
	d, err := ParseDate(iso)
	if err != nil {
		return iso
	}
	return d.Format(longDate)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDays renders a window length for titles, e.g. "30 days".
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
