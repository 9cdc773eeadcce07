package db

import (
	"context"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

// Store 統一的資料庫介面
// ExecTx 讓 service 層可以把跨 repo 的操作包進同一個交易
type Store interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error
	ExecTx(ctx context.Context, fn func(Store) error) error

	// Book 相關操作
	IBookRepository

	// Cart 相關操作
	ICartRepository

	// Order 相關操作
	IOrderRepository
}

// IBookRepository Book 相關操作介面
type IBookRepository interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, bookID uint) (*model.Book, error)
	GetBookForUpdate(ctx context.Context, bookID uint) (*model.Book, error)
	GetBooksByIDs(ctx context.Context, bookIDs []uint) ([]model.Book, error)
	GetBooksInStock(ctx context.Context) ([]model.Book, error)
	GetTopSellingBooks(ctx context.Context, limit int) ([]model.Book, error)
	ReserveStock(ctx context.Context, bookID uint, quantity int) error
	RestockStock(ctx context.Context, bookID uint, quantity int) error
	UpdateBook(ctx context.Context, book *model.Book) error
	HardDeleteBook(ctx context.Context, bookID uint) error
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	UpsertCartItem(ctx context.Context, item *model.CartItem) error
	GetCartItems(ctx context.Context, memberID uint) ([]model.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, memberID, cartItemID uint, quantity int) error
	DeleteCartItem(ctx context.Context, memberID, cartItemID uint) error
	ClearCart(ctx context.Context, memberID uint) error
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrderByClaimCode(ctx context.Context, claimCode string) (*model.Order, error)
	GetOrdersByMemberID(ctx context.Context, memberID uint) ([]model.Order, error)
	ClaimCodeExists(ctx context.Context, claimCode string) (bool, error)
	MarkOrderProcessed(ctx context.Context, claimCode string) (*model.Order, error)
	MarkOrderCancelled(ctx context.Context, orderID uint) (*model.Order, error)
	HasProcessedOrderWithBook(ctx context.Context, memberID, bookID uint) (bool, error)
	CountProcessedOrders(ctx context.Context, memberID uint) (int, error)
}

// SQLStore 統一資料庫實現
type SQLStore struct {
	db    *gorm.DB
	dbDao *DbDao
	*BookRepo
	*CartRepo
	*OrderRepo
}

// NewStore 創建新的統一資料庫實例
func NewStore(db *gorm.DB) *SQLStore {
	dbDao := NewDbDao(db)
	return &SQLStore{
		db:        db,
		dbDao:     dbDao,
		BookRepo:  NewBookRepo(dbDao),
		CartRepo:  NewCartRepo(dbDao),
		OrderRepo: NewOrderRepo(dbDao),
	}
}

func (u *SQLStore) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *SQLStore) GetDB() *gorm.DB {
	return u.db
}

// ExecTx 在單一交易內執行 fn fn 收到的 Store 綁定該交易
// fn 回傳錯誤時整個交易回滾 不會留下部分狀態
func (u *SQLStore) ExecTx(ctx context.Context, fn func(Store) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

var _ Store = (*SQLStore)(nil)
