package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrBookNotFound 書籍不存在
	ErrBookNotFound = errors.New("book not found")
	// ErrBookStockNotEnough 書籍庫存不足
	ErrBookStockNotEnough = errors.New("book stock not enough")
)

// 庫存數字只能透過 ReserveStock / RestockStock 異動
// 不做任何快取 每次都讀取當前交易狀態
type BookRepo struct {
	db *DbDao
}

func NewBookRepo(db *DbDao) *BookRepo {
	return &BookRepo{db: db}
}

func (s *BookRepo) CreateBook(ctx context.Context, book *model.Book) error {
	return s.db.WithContext(ctx).Create(book).Error
}

func (s *BookRepo) GetBookByID(ctx context.Context, bookID uint) (*model.Book, error) {
	var book model.Book
	err := s.db.WithContext(ctx).First(&book, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetBookForUpdate 交易內的鎖定讀 下單流程讀價格用
// 拿到的單價到交易提交前不會被改價動到
func (s *BookRepo) GetBookForUpdate(ctx context.Context, bookID uint) (*model.Book, error) {
	var book model.Book
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&book, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Read - 批次查詢書籍
func (s *BookRepo) GetBooksByIDs(ctx context.Context, bookIDs []uint) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Where("book_id IN ?", bookIDs).Find(&books).Error
	return books, err
}

// Read - 查詢有庫存的書籍
func (s *BookRepo) GetBooksInStock(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Where("stock > 0").Find(&books).Error
	return books, err
}

// 取得熱銷書籍 根據累計售出數排序
func (s *BookRepo) GetTopSellingBooks(ctx context.Context, limit int) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).
		Order("total_sold DESC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// ReserveStock 下單時的庫存預留
// 條件式 UPDATE 會鎖定該列 stock 扣減與 total_sold 累加為同一個原子操作
// 庫存不足時不會有任何異動
func (s *BookRepo) ReserveStock(ctx context.Context, bookID uint, quantity int) error {
	res := s.db.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ? AND stock >= ?", bookID, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"total_sold": gorm.Expr("total_sold + ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 區分書籍不存在與庫存不足
		var book model.Book
		if err := s.db.WithContext(ctx).First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		return ErrBookStockNotEnough
	}
	return nil
}

// RestockStock 取消訂單時的庫存回補 ReserveStock 的反向操作
func (s *BookRepo) RestockStock(ctx context.Context, bookID uint, quantity int) error {
	res := s.db.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ? AND total_sold >= ?", bookID, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"total_sold": gorm.Expr("total_sold - ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Update - 更新書籍
func (s *BookRepo) UpdateBook(ctx context.Context, book *model.Book) error {
	return s.db.WithContext(ctx).Save(book).Error
}

// Delete - 硬刪除書籍
func (s *BookRepo) HardDeleteBook(ctx context.Context, bookID uint) error {
	return s.db.WithContext(ctx).Unscoped().Delete(&model.Book{}, bookID).Error
}
