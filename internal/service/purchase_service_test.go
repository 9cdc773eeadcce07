package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	db              *gorm.DB
	store           db.Store
	cartService     ICartService
	orderService    IOrderService
	purchaseService IPurchaseService
}

// SetupSuite 在測試套件開始前執行
func (suite *PurchaseServiceTestSuite) SetupSuite() {
	conn, err := db.GetDbConn("lab_bookstore", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)
	store := db.NewStore(conn)
	require.NoError(suite.T(), store.InitMigrate())

	suite.db = conn
	suite.store = store
	suite.cartService = NewCartService(store)
	suite.orderService = NewOrderService(store)
	suite.purchaseService = NewPurchaseService(store)
}

// SetupTest 在每個測試前執行
func (suite *PurchaseServiceTestSuite) SetupTest() {
	// 清空資料表
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM orders")
	suite.db.Exec("DELETE FROM cart_items")
	suite.db.Exec("DELETE FROM books")
}

// TearDownSuite 在測試套件結束後執行
func (suite *PurchaseServiceTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *PurchaseServiceTestSuite) createTestBook() *model.Book {
	book := &model.Book{
		Title: "Test Book",
		Price: decimal.NewFromFloat(15.00),
		Stock: 10,
	}
	require.NoError(suite.T(), suite.store.CreateBook(context.Background(), book))
	return book
}

// 下單 -> 未取貨不算購買 -> 取貨後算購買 的完整流程
func (suite *PurchaseServiceTestSuite) TestHasPurchased_Lifecycle() {
	book := suite.createTestBook()

	// 還沒下單
	ok, err := suite.purchaseService.HasPurchased(context.Background(), 1, book.BookID)
	require.NoError(suite.T(), err)
	require.False(suite.T(), ok)

	require.NoError(suite.T(), suite.cartService.AddItem(context.Background(), 1, book.BookID, 1))
	order, err := suite.orderService.PlaceOrder(context.Background(), 1, "", "")
	require.NoError(suite.T(), err)

	// 下單了但還沒取貨
	ok, err = suite.purchaseService.HasPurchased(context.Background(), 1, book.BookID)
	require.NoError(suite.T(), err)
	require.False(suite.T(), ok)

	_, err = suite.store.MarkOrderProcessed(context.Background(), order.ClaimCode)
	require.NoError(suite.T(), err)

	// 取貨完成才算購買
	ok, err = suite.purchaseService.HasPurchased(context.Background(), 1, book.BookID)
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)
}

func (suite *PurchaseServiceTestSuite) TestHasPurchased_CancelledOrderNotCounted() {
	book := suite.createTestBook()
	require.NoError(suite.T(), suite.cartService.AddItem(context.Background(), 1, book.BookID, 1))
	order, err := suite.orderService.PlaceOrder(context.Background(), 1, "", "")
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.orderService.CancelOrder(context.Background(), order.OrderID))

	ok, err := suite.purchaseService.HasPurchased(context.Background(), 1, book.BookID)

	require.NoError(suite.T(), err)
	require.False(suite.T(), ok)
}

// 書籍不存在時沒有任何已處理訂單會包含它 回傳false而不是錯誤
func (suite *PurchaseServiceTestSuite) TestHasPurchased_UnknownBook() {
	ok, err := suite.purchaseService.HasPurchased(context.Background(), 1, 999)

	require.NoError(suite.T(), err)
	require.False(suite.T(), ok)
}

func (suite *PurchaseServiceTestSuite) TestHasPurchasedAs_PrivilegedRoles() {
	book := suite.createTestBook()

	// staff / admin 不需要購買紀錄
	ok, err := suite.purchaseService.HasPurchasedAs(context.Background(), 1, book.BookID, RoleStaff)
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	ok, err = suite.purchaseService.HasPurchasedAs(context.Background(), 1, book.BookID, RoleAdmin)
	require.NoError(suite.T(), err)
	require.True(suite.T(), ok)

	// 一般會員照常檢查
	ok, err = suite.purchaseService.HasPurchasedAs(context.Background(), 1, book.BookID, RoleMember)
	require.NoError(suite.T(), err)
	require.False(suite.T(), ok)
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
