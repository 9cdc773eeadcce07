package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultDiscountPolicy(t *testing.T) {
	testCases := []struct {
		name           string
		itemCount      int
		processedCount int
		expectedPct    string
		expectDesc     bool
	}{
		{"無折扣", 4, 9, "0", false},
		{"滿5本折扣", 5, 0, "0.05", true},
		{"滿5本邊界下", 4, 0, "0", false},
		{"熟客折扣", 1, 10, "0.1", true},
		{"熟客邊界下", 1, 9, "0", false},
		{"折扣疊加", 5, 10, "0.15", true},
		{"大量疊加", 20, 50, "0.15", true},
	}

	subtotal := decimal.NewFromFloat(100.0)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pct, desc := DefaultDiscountPolicy(subtotal, tc.itemCount, MemberHistory{ProcessedOrderCount: tc.processedCount})

			require.True(t, pct.Equal(decimal.RequireFromString(tc.expectedPct)),
				"折扣比例不符 expected %s got %s", tc.expectedPct, pct)
			if tc.expectDesc {
				require.NotEmpty(t, desc)
			} else {
				require.Empty(t, desc)
			}
		})
	}
}

func TestNoDiscountPolicy(t *testing.T) {
	pct, desc := NoDiscountPolicy(decimal.NewFromFloat(999.0), 100, MemberHistory{ProcessedOrderCount: 100})

	require.True(t, pct.IsZero())
	require.Empty(t, desc)
}

func TestClampDiscountPct(t *testing.T) {
	// 政策寫錯回傳負數或超過1 都要被夾住
	require.True(t, clampDiscountPct(decimal.NewFromFloat(-0.5)).IsZero())
	require.True(t, clampDiscountPct(decimal.NewFromFloat(1.5)).Equal(decimal.NewFromInt(1)))
	require.True(t, clampDiscountPct(decimal.NewFromFloat(0.15)).Equal(decimal.NewFromFloat(0.15)))
}
