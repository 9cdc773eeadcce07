package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// stubOrderService 固定回傳預先設定的結果
type stubOrderService struct {
	order *model.Order
	err   error
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, memberID uint, note string, checkoutToken string) (*model.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) CancelOrder(ctx context.Context, orderID uint) error {
	return s.err
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetOrdersByMemberID(ctx context.Context, memberID uint) ([]model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []model.Order{*s.order}, nil
}

type stubFulfillmentService struct {
	order *model.Order
	err   error
}

func (s *stubFulfillmentService) FulfillByClaimCode(ctx context.Context, claimCode string, staffID uint) (*model.Order, error) {
	return s.order, s.err
}

type stubPurchaseService struct {
	hasPurchased bool
	err          error
}

func (s *stubPurchaseService) HasPurchased(ctx context.Context, memberID, bookID uint) (bool, error) {
	return s.hasPurchased, s.err
}

func (s *stubPurchaseService) HasPurchasedAs(ctx context.Context, memberID, bookID uint, role string) (bool, error) {
	if role == service.RoleStaff || role == service.RoleAdmin {
		return true, nil
	}
	return s.hasPurchased, s.err
}

func testOrder() *model.Order {
	return &model.Order{
		OrderID:   1,
		MemberID:  1,
		OrderDate: time.Now().UTC(),
		OrderItems: []model.OrderItem{
			{OrderID: 1, BookID: 3, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.00)},
		},
		Subtotal:    decimal.NewFromFloat(20.00),
		TotalAmount: decimal.NewFromFloat(20.00),
		ClaimCode:   "ABCD2345",
	}
}

func setupTestRouter(orderSvc service.IOrderService, fulfillSvc service.IFulfillmentService, purchaseSvc service.IPurchaseService) *chi.Mux {
	h := NewOrderHandler(orderSvc, fulfillSvc, purchaseSvc)
	r := chi.NewRouter()
	r.Post("/orders", h.PlaceOrder)
	r.Get("/orders", h.ListOrders)
	r.Post("/orders/fulfill", h.FulfillOrder)
	r.Get("/orders/{order_id}", h.GetOrder)
	r.Post("/orders/{order_id}/cancel", h.CancelOrder)
	r.Get("/purchases/check", h.CheckPurchase)
	return r
}

func TestPlaceOrderHandler(t *testing.T) {
	r := setupTestRouter(&stubOrderService{order: testOrder()}, &stubFulfillmentService{}, &stubPurchaseService{})

	body, _ := json.Marshal(map[string]interface{}{
		"member_id": 1,
		"note":      "test",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ABCD2345")
	require.Contains(t, rec.Body.String(), "20.00")
}

func TestPlaceOrderHandler_InvalidBody(t *testing.T) {
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{}, &stubPurchaseService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderHandler_EmptyCart(t *testing.T) {
	r := setupTestRouter(&stubOrderService{err: service.ErrEmptyCart}, &stubFulfillmentService{}, &stubPurchaseService{})

	body, _ := json.Marshal(map[string]interface{}{"member_id": 1})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "cart is empty")
}

// 基礎設施錯誤不能把細節洩漏給前端
func TestPlaceOrderHandler_TransientError(t *testing.T) {
	transient := &service.TransientError{Op: "order.PlaceOrder", Err: context.DeadlineExceeded}
	r := setupTestRouter(&stubOrderService{err: transient}, &stubFulfillmentService{}, &stubPurchaseService{})

	body, _ := json.Marshal(map[string]interface{}{"member_id": 1})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "DeadlineExceeded")
}

func TestFulfillOrderHandler(t *testing.T) {
	order := testOrder()
	order.IsProcessed = true
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{order: order}, &stubPurchaseService{})

	body, _ := json.Marshal(map[string]interface{}{
		"claim_code": "ABCD2345",
		"staff_id":   7,
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/fulfill", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "processed")
}

func TestFulfillOrderHandler_InvalidCode(t *testing.T) {
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{err: service.ErrInvalidClaimCode}, &stubPurchaseService{})

	body, _ := json.Marshal(map[string]interface{}{"claim_code": "bad"})
	req := httptest.NewRequest(http.MethodPost, "/orders/fulfill", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrderHandler(t *testing.T) {
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{}, &stubPurchaseService{})

	req := httptest.NewRequest(http.MethodPost, "/orders/1/cancel", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelOrderHandler_BadOrderID(t *testing.T) {
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{}, &stubPurchaseService{})

	req := httptest.NewRequest(http.MethodPost, "/orders/abc/cancel", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	r := setupTestRouter(&stubOrderService{err: service.ErrOrderNotExist}, &stubFulfillmentService{}, &stubPurchaseService{})

	req := httptest.NewRequest(http.MethodGet, "/orders/999", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckPurchaseHandler(t *testing.T) {
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{}, &stubPurchaseService{hasPurchased: true})

	req := httptest.NewRequest(http.MethodGet, "/purchases/check?member_id=1&book_id=3", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "true")
}

func TestCheckPurchaseHandler_MissingParams(t *testing.T) {
	r := setupTestRouter(&stubOrderService{}, &stubFulfillmentService{}, &stubPurchaseService{})

	req := httptest.NewRequest(http.MethodGet, "/purchases/check", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
