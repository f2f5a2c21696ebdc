package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProgressPercent returns how far value is toward goal as a percentage in [0, 100].
// A non-positive goal yields 0.
func ProgressPercent(value, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() || !value.IsPositive() {
		return decimal.Zero
	}
	pct := value.Div(goal).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
