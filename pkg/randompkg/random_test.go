package randompkg

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBase36(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-Z]{9}$`)

	for i := 0; i < 50; i++ {
		require.Regexp(t, re, Base36(9))
	}
}

func TestAmountsWithinRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		whole := WholeAmountBetween(1, 10)
		require.True(t, whole.IsInteger())
		require.True(t, whole.GreaterThanOrEqual(decimal.NewFromInt(1)))
		require.True(t, whole.LessThanOrEqual(decimal.NewFromInt(10)))

		money := MoneyAmountBetween(1, 10)
		require.True(t, money.GreaterThanOrEqual(decimal.NewFromInt(1)))
		require.True(t, money.LessThanOrEqual(decimal.NewFromInt(10)))
	}
}
