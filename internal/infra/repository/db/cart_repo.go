package db

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCartItemNotFound 購物車項目不存在或不屬於該會員
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// UpsertCartItem 加入購物車
// 同一會員重複加入同一本書時累加數量 不會產生第二列
func (s *CartRepo) UpsertCartItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(item).Error
}

// Read - 取得會員購物車快照
func (s *CartRepo) GetCartItems(ctx context.Context, memberID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("cart_item_id").
		Find(&items).Error
	return items, err
}

// Update - 覆寫購物車項目數量 項目必須屬於該會員
func (s *CartRepo) UpdateCartItemQuantity(ctx context.Context, memberID, cartItemID uint, quantity int) error {
	res := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_item_id = ? AND member_id = ?", cartItemID, memberID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Delete - 移除購物車項目
func (s *CartRepo) DeleteCartItem(ctx context.Context, memberID, cartItemID uint) error {
	res := s.db.WithContext(ctx).
		Where("cart_item_id = ? AND member_id = ?", cartItemID, memberID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Delete - 清空會員購物車 下單成功時在同一交易內呼叫
func (s *CartRepo) ClearCart(ctx context.Context, memberID uint) error {
	return s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&model.CartItem{}).Error
}
