// Package money centralizes the fixed-point arithmetic rules every monetary
// result in the system must follow: 2 decimal places, half-up rounding.
package money

import "github.com/shopspring/decimal"

// Round2 rounds to 2 decimal places, half away from zero. All currency
// amounts are rounded through here so the discipline lives in one place.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApplyDiscountPct subtracts pct% from amount and rounds the result.
func ApplyDiscountPct(amount, pct decimal.Decimal) decimal.Decimal {
	discount := amount.Mul(pct).Div(decimal.NewFromInt(100))
	return Round2(amount.Sub(discount))
}

// WeightedAverage computes the quantity-weighted mean cost of an existing
// balance plus an incoming batch, rounded to 2 decimals. When the combined
// quantity is zero the old cost is returned unchanged.
func WeightedAverage(oldQty int, oldCost decimal.Decimal, newQty int, newCost decimal.Decimal) decimal.Decimal {
	totalQty := decimal.NewFromInt(int64(oldQty + newQty))
	if totalQty.IsZero() {
		return oldCost
	}
	oldTotal := decimal.NewFromInt(int64(oldQty)).Mul(oldCost)
	newTotal := decimal.NewFromInt(int64(newQty)).Mul(newCost)
	return Round2(oldTotal.Add(newTotal).Div(totalQty))
}

// SplitInstallments divides total into n rounded parts whose sum is exactly
// total: every part is total/n rounded to 2 decimals and the last part
// absorbs the remainder. n <= 1 returns the total as a single part.
func SplitInstallments(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 1 {
		return []decimal.Decimal{total}
	}
	part := Round2(total.Div(decimal.NewFromInt(int64(n))))
	parts := make([]decimal.Decimal, n)
	accumulated := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = part
		accumulated = accumulated.Add(part)
	}
	parts[n-1] = total.Sub(accumulated)
	return parts
}
