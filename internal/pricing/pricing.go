// Package pricing interprets operator-entered price text. Prices are stored
// exactly as typed; anything that does not parse to a positive amount renders
// as price-on-request and never contributes to totals.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceOnRequestLabel is shown wherever a product has no usable price.
const PriceOnRequestLabel = "Consulte"

// Parse converts raw price text into a decimal amount. The boolean reports
// whether the text is a valid price: non-empty after trimming, numeric with
// either comma or period as the decimal separator, and strictly positive.
func Parse(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, false
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	if !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// IsValid reports whether the raw text parses to a usable price.
func IsValid(raw string) bool {
	_, ok := Parse(raw)
	return ok
}

// Format renders raw price text for display: "R$ 9,90" when valid,
// the price-on-request label otherwise.
func Format(raw string) string {
	amount, ok := Parse(raw)
	if !ok {
		return PriceOnRequestLabel
	}
	return FormatAmount(amount)
}

// FormatAmount renders a decimal amount in Brazilian currency notation
// with two decimal places and a comma separator.
func FormatAmount(amount decimal.Decimal) string {
	return "R$ " + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}
