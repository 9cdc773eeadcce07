package dto

import "time"

// PlaceOrderDTO 下單請求
// CheckoutToken 選填 帶了同一個token重送不會重複下單
type PlaceOrderDTO struct {
	MemberID      uint   `json:"member_id"`
	Note          string `json:"note"`
	CheckoutToken string `json:"checkout_token"`
}

// FulfillOrderDTO 店員以取貨碼出貨
type FulfillOrderDTO struct {
	ClaimCode string `json:"claim_code"`
	StaffID   uint   `json:"staff_id"`
}

type OrderItemDTO struct {
	BookID    uint   `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"` //下單當下的單價
	Amount    string `json:"amount"`
}

type OrderDTO struct {
	OrderID      uint           `json:"order_id"`
	MemberID     uint           `json:"member_id"`
	OrderDate    time.Time      `json:"order_date"`
	Items        []OrderItemDTO `json:"items"`
	Subtotal     string         `json:"subtotal"`
	DiscountPct  string         `json:"discount_pct"`
	DiscountDesc string         `json:"discount_desc,omitempty"`
	TotalAmount  string         `json:"total_amount"`
	ClaimCode    string         `json:"claim_code"`
	Note         string         `json:"note,omitempty"`
	Status       string         `json:"status"` //pending / processed / cancelled
}

// PurchaseCheckDTO 購買資格檢查結果
type PurchaseCheckDTO struct {
	MemberID     uint `json:"member_id"`
	BookID       uint `json:"book_id"`
	HasPurchased bool `json:"has_purchased"`
}
