package xgo

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RatioPct num/denom*100，保留两位小数；denom<=0 返回 0
func RatioPct(num, denom decimal.Decimal) float64 {
	if !denom.IsPositive() {
		return 0
	}
	return num.Mul(hundred).Div(denom).Round(2).InexactFloat64()
}
