package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 訂單是購物車在下單當下的不可變快照
// IsProcessed / IsCancelled 互斥且單向，一旦為 true 不會再變回 false
type Order struct {
	OrderID      uint            `gorm:"primaryKey"`
	MemberID     uint            `gorm:"not null;index"`
	OrderDate    time.Time       `gorm:"not null"`
	OrderItems   []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // 一對多，級聯刪除
	Subtotal     decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	DiscountPct  decimal.Decimal `gorm:"not null;type:decimal(4,3);default:0"` // [0,1]
	DiscountDesc string          `gorm:"not null;type:varchar(255);default:''"`
	TotalAmount  decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	ClaimCode    string          `gorm:"not null;type:varchar(8);uniqueIndex"`
	Note         string          `gorm:"type:varchar(255)"`
	IsProcessed  bool            `gorm:"not null;default:false"`
	IsCancelled  bool            `gorm:"not null;default:false"`
	BaseModel
}

// IsTerminal 訂單是否已進入終態
func (o *Order) IsTerminal() bool {
	return o.IsProcessed || o.IsCancelled
}

type OrderItem struct {
	OrderID   uint            `gorm:"primaryKey"` // 外鍵，關聯到 Order
	BookID    uint            `gorm:"primaryKey"` // 外鍵，關聯到 Book
	Book      Book            `gorm:"foreignKey:BookID"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)"` // 下單當下的單價快照
	BaseModel
}

// Amount 該項目小計
func (i *OrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
