package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MemberHistory 計算折扣時會用到的會員歷史
type MemberHistory struct {
	ProcessedOrderCount int
}

// DiscountPolicy 折扣政策
// 回傳折扣比例 [0,1] 與說明文字 沒有折扣時比例為0 說明為空字串
// 政策是可抽換的 訂單交易的正確性不依賴折扣規則
type DiscountPolicy func(subtotal decimal.Decimal, itemCount int, history MemberHistory) (decimal.Decimal, string)

const (
	bulkDiscountThreshold    = 5
	loyaltyDiscountThreshold = 10
)

var (
	bulkDiscountPct    = decimal.NewFromFloat(0.05)
	loyaltyDiscountPct = decimal.NewFromFloat(0.10)
)

// DefaultDiscountPolicy 預設折扣政策
// 單筆訂單滿5本打95折 累計完成10筆訂單的會員再打9折 兩者可疊加
func DefaultDiscountPolicy(subtotal decimal.Decimal, itemCount int, history MemberHistory) (decimal.Decimal, string) {
	pct := decimal.Zero
	var descs []string

	if itemCount >= bulkDiscountThreshold {
		pct = pct.Add(bulkDiscountPct)
		descs = append(descs, "5% bulk discount (5+ books)")
	}
	if history.ProcessedOrderCount >= loyaltyDiscountThreshold {
		pct = pct.Add(loyaltyDiscountPct)
		descs = append(descs, "10% loyalty discount (10+ orders)")
	}

	return pct, strings.Join(descs, ", ")
}

// NoDiscountPolicy 不打折
func NoDiscountPolicy(subtotal decimal.Decimal, itemCount int, history MemberHistory) (decimal.Decimal, string) {
	return decimal.Zero, ""
}

// clampDiscountPct 把政策回傳值夾在 [0,1] 政策寫錯也不能讓訂單金額為負
func clampDiscountPct(pct decimal.Decimal) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	if pct.GreaterThan(one) {
		return one
	}
	return pct
}
