package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func init() {
	// Money fields render as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ApplyPercentOff returns amount × (100 − percent) / 100.
// percent is clamped to [0, 100].
func ApplyPercentOff(amount decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return amount
	}
	if percent > 100 {
		percent = 100
	}
	return amount.Mul(decimal.NewFromInt(int64(100 - percent))).Div(hundred)
}
