package model

import "time"

// 購物車項目 每個會員對同一本書只會有一列
// 下單成功後會隨訂單建立在同一個交易內清空
type CartItem struct {
	CartItemID uint      `gorm:"primaryKey"`
	MemberID   uint      `gorm:"not null;uniqueIndex:idx_cart_member_book"`
	BookID     uint      `gorm:"not null;uniqueIndex:idx_cart_member_book"`
	Quantity   int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	UpdatedAt  time.Time `gorm:"null"`
}
