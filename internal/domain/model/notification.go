package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 取貨完成通知 推送給通知服務的事件內容
type OrderProcessedNotification struct {
	OrderID     uint            `json:"order_id"`
	MemberID    uint            `json:"member_id"`
	StaffID     uint            `json:"staff_id"`
	ClaimCode   string          `json:"claim_code"`
	Titles      []string        `json:"titles"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ProcessedAt time.Time       `json:"processed_at"`
}
