package model

import (
	"github.com/shopspring/decimal"
)

// 書籍主檔由目錄服務維護，這裡只保留訂單核心需要的欄位
// Stock 與 TotalSold 只能透過 BookRepo 的原子操作異動
type Book struct {
	BookID     uint            `gorm:"primaryKey"`
	Title      string          `gorm:"not null;type:varchar(200)"`
	Author     string          `gorm:"not null;type:varchar(100);default:''"`
	Price      decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Stock      uint            `gorm:"not null;type:int"`
	TotalSold  uint            `gorm:"not null;type:int;default:0"`
	OrderItems []OrderItem     `gorm:"foreignKey:BookID"`
	BaseModel
}
