package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2HalfUp(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"33.333333", "33.33"},
		{"0.125", "0.13"},
		{"10", "10"},
	}
	for _, c := range cases {
		assert.True(t, Round2(dec(c.in)).Equal(dec(c.want)), "Round2(%s) = %s, want %s", c.in, Round2(dec(c.in)), c.want)
	}
}

func TestApplyDiscountPct(t *testing.T) {
	// 50.00 − 15% = 42.50
	got := ApplyDiscountPct(dec("50.00"), dec("15"))
	assert.True(t, got.Equal(dec("42.50")), "got %s", got)

	// 100.00 − 10% = 90.00
	got = ApplyDiscountPct(dec("100.00"), dec("10"))
	assert.True(t, got.Equal(dec("90.00")), "got %s", got)

	// zero discount leaves the amount untouched
	got = ApplyDiscountPct(dec("19.99"), decimal.Zero)
	assert.True(t, got.Equal(dec("19.99")))
}

func TestWeightedAverage(t *testing.T) {
	// 10 @ 4.00 + 10 @ 6.00 → 5.00
	got := WeightedAverage(10, dec("4.00"), 10, dec("6.00"))
	assert.True(t, got.Equal(dec("5.00")), "got %s", got)

	// uneven batch sizes round half-up: (3*1.00 + 1*2.00)/4 = 1.25
	got = WeightedAverage(3, dec("1.00"), 1, dec("2.00"))
	assert.True(t, got.Equal(dec("1.25")), "got %s", got)

	// zero combined quantity keeps the old cost
	got = WeightedAverage(0, dec("7.50"), 0, dec("3.00"))
	assert.True(t, got.Equal(dec("7.50")))
}

func TestSplitInstallmentsExactSum(t *testing.T) {
	// 100.00 / 3 → [33.33, 33.33, 33.34]
	parts := SplitInstallments(dec("100.00"), 3)
	require.Len(t, parts, 3)
	assert.True(t, parts[0].Equal(dec("33.33")))
	assert.True(t, parts[1].Equal(dec("33.33")))
	assert.True(t, parts[2].Equal(dec("33.34")))

	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(dec("100.00")))
}

func TestSplitInstallmentsNoRemainder(t *testing.T) {
	parts := SplitInstallments(dec("90.00"), 3)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.True(t, p.Equal(dec("30.00")))
	}
}

func TestSplitInstallmentsSingle(t *testing.T) {
	parts := SplitInstallments(dec("55.55"), 1)
	require.Len(t, parts, 1)
	assert.True(t, parts[0].Equal(dec("55.55")))

	parts = SplitInstallments(dec("55.55"), 0)
	require.Len(t, parts, 1)
}

func TestSplitInstallmentsRemainderAbsorbedByLast(t *testing.T) {
	// 10.00 / 7 = 1.43 per installment; last takes 10.00 − 6×1.43 = 1.42
	parts := SplitInstallments(dec("10.00"), 7)
	require.Len(t, parts, 7)
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(dec("10.00")), "sum %s", sum)
	assert.True(t, parts[6].Equal(dec("1.42")), "last %s", parts[6])
}
