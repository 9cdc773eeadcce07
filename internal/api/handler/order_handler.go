package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/bookstore/internal/api/dto"
	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService       service.IOrderService
	fulfillmentService service.IFulfillmentService
	purchaseService    service.IPurchaseService
}

func NewOrderHandler(
	orderService service.IOrderService,
	fulfillmentService service.IFulfillmentService,
	purchaseService service.IPurchaseService,
) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	if fulfillmentService == nil {
		panic("fulfillmentService cannot be nil")
	}
	if purchaseService == nil {
		panic("purchaseService cannot be nil")
	}
	return &OrderHandler{
		orderService:       orderService,
		fulfillmentService: fulfillmentService,
		purchaseService:    purchaseService,
	}
}

// PlaceOrder 把購物車轉成訂單 回傳含取貨碼的訂單內容
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var placeDTO dto.PlaceOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&placeDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	order, err := h.orderService.PlaceOrder(ctx, placeDTO.MemberID, placeDTO.Note, placeDTO.CheckoutToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderModelToDTO(order), nil)
}

// FulfillOrder 店員掃取貨碼出貨
func (h *OrderHandler) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	var fulfillDTO dto.FulfillOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&fulfillDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	order, err := h.fulfillmentService.FulfillByClaimCode(ctx, fulfillDTO.ClaimCode, fulfillDTO.StaffID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderModelToDTO(order), nil)
}

// CancelOrder 取消待取貨訂單
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "order_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	if err := h.orderService.CancelOrder(ctx, orderID); err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// GetOrder 查詢單筆訂單
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "order_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	order, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, convertOrderModelToDTO(order), nil)
}

// ListOrders 查詢會員全部訂單 新到舊
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseUintQuery(r, "member_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	orders, err := h.orderService.GetOrdersByMemberID(ctx, memberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	orderDTOs := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		orderDTOs = append(orderDTOs, convertOrderModelToDTO(&orders[i]))
	}

	api.SuccessJSON(w, orderDTOs, nil)
}

// CheckPurchase 會員是否買過該書 評論權限檢查用
func (h *OrderHandler) CheckPurchase(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseUintQuery(r, "member_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}
	bookID, err := parseUintQuery(r, "book_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}
	role := r.URL.Query().Get("role")
	if role == "" {
		role = service.RoleMember
	}

	ctx := r.Context()

	hasPurchased, err := h.purchaseService.HasPurchasedAs(ctx, memberID, bookID, role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.PurchaseCheckDTO{
		MemberID:     memberID,
		BookID:       bookID,
		HasPurchased: hasPurchased,
	}, nil)
}

// convertOrderModelToDTO 將 Order 轉換為 OrderDTO
func convertOrderModelToDTO(order *model.Order) dto.OrderDTO {
	items := make([]dto.OrderItemDTO, 0, len(order.OrderItems))
	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		items = append(items, dto.OrderItemDTO{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Amount:    item.Amount().StringFixed(2),
		})
	}

	status := "pending"
	if order.IsProcessed {
		status = "processed"
	} else if order.IsCancelled {
		status = "cancelled"
	}

	return dto.OrderDTO{
		OrderID:      order.OrderID,
		MemberID:     order.MemberID,
		OrderDate:    order.OrderDate,
		Items:        items,
		Subtotal:     order.Subtotal.StringFixed(2),
		DiscountPct:  order.DiscountPct.String(),
		DiscountDesc: order.DiscountDesc,
		TotalAmount:  order.TotalAmount.StringFixed(2),
		ClaimCode:    order.ClaimCode,
		Note:         order.Note,
		Status:       status,
	}
}

// handleServiceError 服務層錯誤轉HTTP回應
// 可預期的業務錯誤回BadRequest並帶原因 其餘一律InternalError
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrQuantityOutOfRange),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrOrderNotExist),
		errors.Is(err, service.ErrInvalidClaimCode),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrCheckoutInProgress):
		api.ErrorJSON(w, int(er.BadRequestCode), err, err.Error())
	default:
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
	}
}

func parseUintParam(r *http.Request, key string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
