package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/bookstore/internal/pkg/claimcode"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// 取貨碼碰撞重試上限 32^8 的碼空間下碰撞機率極低
const claimCodeMaxAttempts = 5

type IOrderService interface {
	PlaceOrder(ctx context.Context, memberID uint, note string, checkoutToken string) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID uint) error
	GetOrder(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrdersByMemberID(ctx context.Context, memberID uint) ([]model.Order, error)
}

type OrderService struct {
	store           db.Store
	tokenRepo       redis_repo.ICheckoutTokenRepository // 可為nil 此時不做結帳冪等檢查
	discountPolicy  DiscountPolicy
	restockOnCancel bool
}

type OrderServiceOption func(*OrderService)

// WithCheckoutTokenRepo 啟用結帳冪等token client重試同一次結帳不會重複下單
func WithCheckoutTokenRepo(tokenRepo redis_repo.ICheckoutTokenRepository) OrderServiceOption {
	return func(s *OrderService) {
		s.tokenRepo = tokenRepo
	}
}

// WithDiscountPolicy 抽換折扣政策
func WithDiscountPolicy(policy DiscountPolicy) OrderServiceOption {
	return func(s *OrderService) {
		s.discountPolicy = policy
	}
}

// WithRestockOnCancel 取消訂單時是否回補庫存 預設不回補
func WithRestockOnCancel(restock bool) OrderServiceOption {
	return func(s *OrderService) {
		s.restockOnCancel = restock
	}
}

func NewOrderService(store db.Store, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store:          store,
		discountPolicy: DefaultDiscountPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder 把購物車快照成不可變訂單
// 庫存預留 訂單建立 清空購物車在同一個交易內 任何一步失敗全部回滾
// checkoutToken 為空字串時跳過冪等檢查
func (s *OrderService) PlaceOrder(ctx context.Context, memberID uint, note string, checkoutToken string) (*model.Order, error) {
	if s.tokenRepo != nil && checkoutToken != "" {
		boundOrderID, err := s.tokenRepo.Acquire(ctx, checkoutToken)
		if err != nil {
			if errors.Is(err, redis_repo.ErrCheckoutInProgress) {
				return nil, ErrCheckoutInProgress
			}
			return nil, classifyErr("order.PlaceOrder", err)
		}
		if boundOrderID != 0 {
			// 同一個token已經下單成功過 直接回傳原訂單
			return s.GetOrder(ctx, boundOrderID)
		}
	}

	order, err := s.placeOrderTx(ctx, memberID, note)
	if err != nil {
		if s.tokenRepo != nil && checkoutToken != "" {
			// 下單失敗 釋放token讓client重試
			s.tokenRepo.Release(ctx, checkoutToken)
		}
		return nil, err
	}

	if s.tokenRepo != nil && checkoutToken != "" {
		// 綁定失敗不影響已成立的訂單
		// 釋放token避免client重試時卡在占用狀態直到TTL過期
		if err := s.tokenRepo.BindOrder(ctx, checkoutToken, order.OrderID); err != nil {
			log.Warn().Err(err).
				Uint("order_id", order.OrderID).
				Msg("failed to bind order to checkout token")
			s.tokenRepo.Release(ctx, checkoutToken)
		}
	}
	return order, nil
}

func (s *OrderService) placeOrderTx(ctx context.Context, memberID uint, note string) (*model.Order, error) {
	// 取貨碼在交易開始前產生並檢查碰撞 重試迴圈不持有任何列鎖
	// 檢查與寫入之間的極端race由唯一索引擋下 該情況整筆下單以暫時性錯誤回報
	code, err := s.generateUniqueClaimCode(ctx, s.store)
	if err != nil {
		return nil, classifyErr("order.PlaceOrder", err)
	}

	var order *model.Order
	err = s.store.ExecTx(ctx, func(tx db.Store) error {
		cartItems, err := tx.GetCartItems(ctx, memberID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		// 鎖定讀凍結下單當下的單價 逐項預留庫存
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		subtotal := decimal.Zero
		itemCount := 0
		for _, cartItem := range cartItems {
			book, err := tx.GetBookForUpdate(ctx, cartItem.BookID)
			if err != nil {
				if errors.Is(err, db.ErrBookNotFound) {
					return ErrBookNotFound
				}
				return err
			}

			if err := tx.ReserveStock(ctx, book.BookID, cartItem.Quantity); err != nil {
				if errors.Is(err, db.ErrBookStockNotEnough) {
					return ErrInsufficientStock
				}
				if errors.Is(err, db.ErrBookNotFound) {
					return ErrBookNotFound
				}
				return err
			}

			orderItems = append(orderItems, model.OrderItem{
				BookID:    book.BookID,
				Quantity:  cartItem.Quantity,
				UnitPrice: book.Price,
			})
			subtotal = subtotal.Add(book.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
			itemCount += cartItem.Quantity
		}

		history, err := s.memberHistory(ctx, tx, memberID)
		if err != nil {
			return err
		}
		discountPct, discountDesc := s.discountPolicy(subtotal, itemCount, history)
		discountPct = clampDiscountPct(discountPct)
		totalAmount := subtotal.Mul(decimal.NewFromInt(1).Sub(discountPct)).Round(2)

		order = &model.Order{
			MemberID:     memberID,
			OrderDate:    time.Now().UTC(),
			OrderItems:   orderItems,
			Subtotal:     subtotal,
			DiscountPct:  discountPct,
			DiscountDesc: discountDesc,
			TotalAmount:  totalAmount,
			ClaimCode:    code,
			Note:         note,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		// 購物車清空與訂單建立同生共死
		return tx.ClearCart(ctx, memberID)
	})
	if err != nil {
		return nil, classifyErr("order.PlaceOrder", err)
	}
	return order, nil
}

// 產生未被使用的取貨碼 先查再寫
func (s *OrderService) generateUniqueClaimCode(ctx context.Context, store db.Store) (string, error) {
	for i := 0; i < claimCodeMaxAttempts; i++ {
		code, err := claimcode.Generate()
		if err != nil {
			return "", err
		}
		exists, err := store.ClaimCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

func (s *OrderService) memberHistory(ctx context.Context, tx db.Store, memberID uint) (MemberHistory, error) {
	count, err := tx.CountProcessedOrders(ctx, memberID)
	if err != nil {
		return MemberHistory{}, err
	}
	return MemberHistory{ProcessedOrderCount: count}, nil
}

// CancelOrder 取消待取貨訂單
// 已處理的訂單不能取消 重複取消回傳 ErrAlreadyCancelled
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) error {
	if !s.restockOnCancel {
		_, err := s.store.MarkOrderCancelled(ctx, orderID)
		return classifyErr("order.CancelOrder", s.mapCancelErr(err))
	}

	// 回補庫存時 取消與回補必須在同一交易
	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		order, err := tx.MarkOrderCancelled(ctx, orderID)
		if err != nil {
			return s.mapCancelErr(err)
		}
		for _, item := range order.OrderItems {
			if err := tx.RestockStock(ctx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	return classifyErr("order.CancelOrder", err)
}

func (s *OrderService) mapCancelErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrOrderNotFound):
		return ErrOrderNotExist
	case errors.Is(err, db.ErrOrderAlreadyProcessed):
		return ErrAlreadyProcessed
	case errors.Is(err, db.ErrOrderAlreadyCancelled):
		return ErrAlreadyCancelled
	default:
		return err
	}
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, ErrOrderNotExist
		}
		return nil, classifyErr("order.GetOrder", err)
	}
	return order, nil
}

func (s *OrderService) GetOrdersByMemberID(ctx context.Context, memberID uint) ([]model.Order, error) {
	orders, err := s.store.GetOrdersByMemberID(ctx, memberID)
	if err != nil {
		return nil, classifyErr("order.GetOrdersByMemberID", err)
	}
	return orders, nil
}

var _ IOrderService = (*OrderService)(nil)
