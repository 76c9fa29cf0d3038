package models

import "github.com/shopspring/decimal"

// FormatAmount renders an amount in the smallest currency unit as a fixed
// two-decimal string, e.g. 1250 -> "12.50".
func FormatAmount(amount int) string {
	return decimal.New(int64(amount), -2).StringFixed(2)
}
