package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

// 單一項目數量上限 前端輸入也以此為上限
const MaxItemQuantity = 100

type ICartService interface {
	AddItem(ctx context.Context, memberID, bookID uint, quantity int) error
	UpdateItem(ctx context.Context, memberID, cartItemID uint, quantity int) error
	RemoveItem(ctx context.Context, memberID, cartItemID uint) error
	Clear(ctx context.Context, memberID uint) error
	Snapshot(ctx context.Context, memberID uint) ([]model.CartItem, error)
}

type CartService struct {
	store db.Store
}

func NewCartService(store db.Store) *CartService {
	return &CartService{store: store}
}

// AddItem 加入購物車 同一本書重複加入時累加數量
func (s *CartService) AddItem(ctx context.Context, memberID, bookID uint, quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return ErrQuantityOutOfRange
	}

	// 確認書籍存在
	if _, err := s.store.GetBookByID(ctx, bookID); err != nil {
		if errors.Is(err, db.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return classifyErr("cart.AddItem", err)
	}

	err := s.store.UpsertCartItem(ctx, &model.CartItem{
		MemberID: memberID,
		BookID:   bookID,
		Quantity: quantity,
	})
	return classifyErr("cart.AddItem", err)
}

// UpdateItem 覆寫數量 項目不屬於該會員時回傳 ErrCartItemNotFound
func (s *CartService) UpdateItem(ctx context.Context, memberID, cartItemID uint, quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return ErrQuantityOutOfRange
	}

	err := s.store.UpdateCartItemQuantity(ctx, memberID, cartItemID, quantity)
	if errors.Is(err, db.ErrCartItemNotFound) {
		return ErrCartItemNotFound
	}
	return classifyErr("cart.UpdateItem", err)
}

func (s *CartService) RemoveItem(ctx context.Context, memberID, cartItemID uint) error {
	err := s.store.DeleteCartItem(ctx, memberID, cartItemID)
	if errors.Is(err, db.ErrCartItemNotFound) {
		return ErrCartItemNotFound
	}
	return classifyErr("cart.RemoveItem", err)
}

func (s *CartService) Clear(ctx context.Context, memberID uint) error {
	return classifyErr("cart.Clear", s.store.ClearCart(ctx, memberID))
}

// Snapshot 取得下單用的購物車快照
func (s *CartService) Snapshot(ctx context.Context, memberID uint) ([]model.CartItem, error) {
	items, err := s.store.GetCartItems(ctx, memberID)
	if err != nil {
		return nil, classifyErr("cart.Snapshot", err)
	}
	return items, nil
}

var _ ICartService = (*CartService)(nil)
