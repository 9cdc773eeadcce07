package db

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CartRepoTestSuite struct {
	suite.Suite
	db       *gorm.DB
	cartRepo *CartRepo
	bookRepo *BookRepo
}

// SetupSuite 在測試套件開始前執行
func (suite *CartRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_bookstore", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)
	dbDao := NewDbDao(db)
	require.NoError(suite.T(), dbDao.InitMigrate())

	suite.db = db
	suite.cartRepo = NewCartRepo(dbDao)
	suite.bookRepo = NewBookRepo(dbDao)
}

// SetupTest 在每個測試前執行
func (suite *CartRepoTestSuite) SetupTest() {
	// 清空資料表
	suite.db.Exec("DELETE FROM cart_items")
	suite.db.Exec("DELETE FROM books")
}

// TearDownSuite 在測試套件結束後執行
func (suite *CartRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *CartRepoTestSuite) createTestBook() *model.Book {
	book := &model.Book{
		Title: "Test Book",
		Price: decimal.NewFromFloat(9.99),
		Stock: 100,
	}
	require.NoError(suite.T(), suite.bookRepo.CreateBook(context.Background(), book))
	return book
}

func (suite *CartRepoTestSuite) TestUpsertCartItem() {
	book := suite.createTestBook()

	err := suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1,
		BookID:   book.BookID,
		Quantity: 2,
	})

	require.NoError(suite.T(), err)
	items, err := suite.cartRepo.GetCartItems(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	require.Equal(suite.T(), 2, items[0].Quantity)
}

// 同一本書重複加入要累加數量 不能產生第二列
func (suite *CartRepoTestSuite) TestUpsertCartItem_AccumulatesQuantity() {
	book := suite.createTestBook()

	for i := 0; i < 3; i++ {
		err := suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
			MemberID: 1,
			BookID:   book.BookID,
			Quantity: 2,
		})
		require.NoError(suite.T(), err)
	}

	items, err := suite.cartRepo.GetCartItems(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	require.Equal(suite.T(), 6, items[0].Quantity)
}

func (suite *CartRepoTestSuite) TestGetCartItems_MemberIsolation() {
	book := suite.createTestBook()
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1, BookID: book.BookID, Quantity: 1,
	}))
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 2, BookID: book.BookID, Quantity: 5,
	}))

	items, err := suite.cartRepo.GetCartItems(context.Background(), 1)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	require.Equal(suite.T(), 1, items[0].Quantity)
}

func (suite *CartRepoTestSuite) TestUpdateCartItemQuantity() {
	book := suite.createTestBook()
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1, BookID: book.BookID, Quantity: 1,
	}))
	items, _ := suite.cartRepo.GetCartItems(context.Background(), 1)

	err := suite.cartRepo.UpdateCartItemQuantity(context.Background(), 1, items[0].CartItemID, 7)

	require.NoError(suite.T(), err)
	items, _ = suite.cartRepo.GetCartItems(context.Background(), 1)
	require.Equal(suite.T(), 7, items[0].Quantity)
}

// 不能改到別人的購物車項目
func (suite *CartRepoTestSuite) TestUpdateCartItemQuantity_WrongMember() {
	book := suite.createTestBook()
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1, BookID: book.BookID, Quantity: 1,
	}))
	items, _ := suite.cartRepo.GetCartItems(context.Background(), 1)

	err := suite.cartRepo.UpdateCartItemQuantity(context.Background(), 2, items[0].CartItemID, 7)

	require.ErrorIs(suite.T(), err, ErrCartItemNotFound)
}

func (suite *CartRepoTestSuite) TestDeleteCartItem() {
	book := suite.createTestBook()
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1, BookID: book.BookID, Quantity: 1,
	}))
	items, _ := suite.cartRepo.GetCartItems(context.Background(), 1)

	err := suite.cartRepo.DeleteCartItem(context.Background(), 1, items[0].CartItemID)

	require.NoError(suite.T(), err)
	items, _ = suite.cartRepo.GetCartItems(context.Background(), 1)
	require.Empty(suite.T(), items)
}

func (suite *CartRepoTestSuite) TestDeleteCartItem_NotFound() {
	err := suite.cartRepo.DeleteCartItem(context.Background(), 1, 999)

	require.ErrorIs(suite.T(), err, ErrCartItemNotFound)
}

func (suite *CartRepoTestSuite) TestClearCart() {
	bookA := suite.createTestBook()
	bookB := suite.createTestBook()
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1, BookID: bookA.BookID, Quantity: 1,
	}))
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(context.Background(), &model.CartItem{
		MemberID: 1, BookID: bookB.BookID, Quantity: 2,
	}))

	err := suite.cartRepo.ClearCart(context.Background(), 1)

	require.NoError(suite.T(), err)
	items, _ := suite.cartRepo.GetCartItems(context.Background(), 1)
	require.Empty(suite.T(), items)
}

// 清空不存在的購物車不是錯誤
func (suite *CartRepoTestSuite) TestClearCart_Empty() {
	err := suite.cartRepo.ClearCart(context.Background(), 999)

	require.NoError(suite.T(), err)
}

func TestCartRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepoTestSuite))
}
