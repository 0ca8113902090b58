package export

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders a value as whole dollars with thousands separators,
// e.g. $1,234,568. Used for map tooltips.
func FormatUSD(v float64) string {
	return usd.Sprintf("$%.0f", v)
}

// FormatUSDPrecise renders a value with cents, e.g. $1,234,567.89. Used for
// totals in logs and summaries.
func FormatUSDPrecise(v float64) string {
	return usd.Sprintf("$%.2f", v)
}
