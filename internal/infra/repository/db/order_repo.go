package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrClaimCodeNotFound 取貨碼不存在
	ErrClaimCodeNotFound = errors.New("claim code not found")
	// ErrOrderAlreadyProcessed 訂單已完成取貨
	ErrOrderAlreadyProcessed = errors.New("order already processed")
	// ErrOrderAlreadyCancelled 訂單已取消
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	// ErrDuplicateClaimCode 取貨碼重複
	ErrDuplicateClaimCode = errors.New("duplicate claim code")
)

// 訂單一旦建立即為不可變快照 只有兩個終態轉移會寫入
// 終態轉移一律使用條件式 UPDATE 防止並發重複處理
type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單 含訂單項目
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	err := s.db.WithContext(ctx).Create(order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateClaimCode
		}
		return err
	}
	return nil
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Read - 根據取貨碼查詢訂單
func (s *OrderRepo) GetOrderByClaimCode(ctx context.Context, claimCode string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("claim_code = ?", claimCode).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimCodeNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Read - 根據會員ID查詢訂單
func (s *OrderRepo) GetOrdersByMemberID(ctx context.Context, memberID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("member_id = ?", memberID).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

// ClaimCodeExists 取貨碼是否已被使用
func (s *OrderRepo) ClaimCodeExists(ctx context.Context, claimCode string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("claim_code = ?", claimCode).
		Count(&count).Error
	return count > 0, err
}

// MarkOrderProcessed 以取貨碼將訂單轉為已處理
// check-then-set 必須是單一條件式 UPDATE 兩個員工同時處理同一個取貨碼時只有一個會成功
// 失敗時重讀該列區分取貨碼不存在 / 已取消 / 已處理
func (s *OrderRepo) MarkOrderProcessed(ctx context.Context, claimCode string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).
			Where("claim_code = ? AND is_processed = ? AND is_cancelled = ?", claimCode, false, false).
			Update("is_processed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing model.Order
			if err := tx.Where("claim_code = ?", claimCode).First(&existing).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrClaimCodeNotFound
				}
				return err
			}
			if existing.IsCancelled {
				return ErrOrderAlreadyCancelled
			}
			return ErrOrderAlreadyProcessed
		}
		return tx.Preload("OrderItems.Book").
			Where("claim_code = ?", claimCode).
			First(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderCancelled 將訂單轉為已取消 與 MarkOrderProcessed 同樣的 CAS 模式
func (s *OrderRepo) MarkOrderCancelled(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).
			Where("order_id = ? AND is_processed = ? AND is_cancelled = ?", orderID, false, false).
			Update("is_cancelled", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing model.Order
			if err := tx.First(&existing, orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOrderNotFound
				}
				return err
			}
			if existing.IsProcessed {
				return ErrOrderAlreadyProcessed
			}
			return ErrOrderAlreadyCancelled
		}
		return tx.Preload("OrderItems").First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// HasProcessedOrderWithBook 會員是否有含該書籍的已處理訂單
// 評論資格檢查 每次都從當前訂單狀態重新計算 不做快取
func (s *OrderRepo) HasProcessedOrderWithBook(ctx context.Context, memberID, bookID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.order_id").
		Where("orders.member_id = ? AND orders.is_processed = ? AND orders.is_cancelled = ? AND order_items.book_id = ?",
			memberID, true, false, bookID).
		Count(&count).Error
	return count > 0, err
}

// CountProcessedOrders 會員已完成取貨的訂單數 折扣政策使用
func (s *OrderRepo) CountProcessedOrders(ctx context.Context, memberID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("member_id = ? AND is_processed = ? AND is_cancelled = ?", memberID, true, false).
		Count(&count).Error
	return int(count), err
}
