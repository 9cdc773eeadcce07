package service

import (
	"context"

	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

// 有特權的角色不需購買紀錄即可通過檢查
const (
	RoleMember = "member"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

type IPurchaseService interface {
	HasPurchased(ctx context.Context, memberID, bookID uint) (bool, error)
	HasPurchasedAs(ctx context.Context, memberID, bookID uint, role string) (bool, error)
}

// PurchaseService 購買資格檢查 評論權限的依據
// 只有已完成取貨的訂單才算數 待取貨與已取消都不算
type PurchaseService struct {
	store db.Store
}

func NewPurchaseService(store db.Store) *PurchaseService {
	return &PurchaseService{store: store}
}

// 純粹從訂單狀態推導的布林值 書籍不存在時自然沒有任何已處理訂單包含它 回傳false
func (s *PurchaseService) HasPurchased(ctx context.Context, memberID, bookID uint) (bool, error) {
	ok, err := s.store.HasProcessedOrderWithBook(ctx, memberID, bookID)
	if err != nil {
		return false, classifyErr("purchase.HasPurchased", err)
	}
	return ok, nil
}

// HasPurchasedAs 帶角色的檢查 staff與admin直接放行
func (s *PurchaseService) HasPurchasedAs(ctx context.Context, memberID, bookID uint, role string) (bool, error) {
	if role == RoleStaff || role == RoleAdmin {
		return true, nil
	}
	return s.HasPurchased(ctx, memberID, bookID)
}

var _ IPurchaseService = (*PurchaseService)(nil)
