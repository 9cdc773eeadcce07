package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/bookstore/internal/api/dto"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{
		cartService: cartService,
	}
}

// AddItem 加入購物車 同一本書重複加入會累加數量
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var addDTO dto.AddCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&addDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	if err := h.cartService.AddItem(ctx, addDTO.MemberID, addDTO.BookID, addDTO.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// UpdateItem 設定購物車項目數量
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var updateDTO dto.UpdateCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	if err := h.cartService.UpdateItem(ctx, updateDTO.MemberID, updateDTO.CartItemID, updateDTO.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// RemoveItem 移除購物車項目
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var removeDTO dto.RemoveCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&removeDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	if err := h.cartService.RemoveItem(ctx, removeDTO.MemberID, removeDTO.CartItemID); err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// Clear 清空購物車
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseUintQuery(r, "member_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	if err := h.cartService.Clear(ctx, memberID); err != nil {
		handleServiceError(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// GetCart 取得購物車內容
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseUintQuery(r, "member_id")
	if err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()

	items, err := h.cartService.Snapshot(ctx, memberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	cartDTO := dto.CartDTO{
		MemberID: memberID,
		Items:    make([]dto.CartItemDTO, 0, len(items)),
	}
	for _, item := range items {
		cartDTO.Items = append(cartDTO.Items, dto.CartItemDTO{
			CartItemID: item.CartItemID,
			BookID:     item.BookID,
			Quantity:   item.Quantity,
		})
	}

	api.SuccessJSON(w, cartDTO, nil)
}

func parseUintQuery(r *http.Request, key string) (uint, error) {
	v, err := strconv.ParseUint(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
