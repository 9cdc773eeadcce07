package dto

// AddCartItemDTO 加入購物車
type AddCartItemDTO struct {
	MemberID uint `json:"member_id"`
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"` //要增加的數量
}

// UpdateCartItemDTO 直接設定購物車項目數量
type UpdateCartItemDTO struct {
	MemberID   uint `json:"member_id"`
	CartItemID uint `json:"cart_item_id"`
	Quantity   int  `json:"quantity"` //設定後的數量
}

type RemoveCartItemDTO struct {
	MemberID   uint `json:"member_id"`
	CartItemID uint `json:"cart_item_id"`
}

type CartItemDTO struct {
	CartItemID uint `json:"cart_item_id"`
	BookID     uint `json:"book_id"`
	Quantity   int  `json:"quantity"`
}

type CartDTO struct {
	MemberID uint          `json:"member_id"`
	Items    []CartItemDTO `json:"items"`
}
