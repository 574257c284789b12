package shared

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimals kept on stored amounts
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount half away from zero to MoneyScale decimals
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// ApplyRate returns amount * rate / 100
func ApplyRate(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}
