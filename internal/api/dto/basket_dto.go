package dto

// ==================== 购物篮请求 ====================

// BasketAddItem 加购条目
type BasketAddItem struct {
	ProductInfoID int64 `json:"product_info" binding:"required"`
	Quantity      int   `json:"quantity" binding:"required"`
}

// BasketAddRequest 批量加购
type BasketAddRequest struct {
	Items []BasketAddItem `json:"items" binding:"required"`
}

// BasketUpdateItem 改数量条目
// id/quantity 收 any：非整数条目按静默跳过处理，不整体报错
type BasketUpdateItem struct {
	ID       any `json:"id"`
	Quantity any `json:"quantity"`
}

// BasketUpdateRequest 批量改数量
type BasketUpdateRequest struct {
	Items []BasketUpdateItem `json:"items" binding:"required"`
}

// BasketRemoveRequest 批量删除，items 是逗号分隔的订单项 id 串
type BasketRemoveRequest struct {
	Items string `json:"items" binding:"required"`
}

// ==================== 购物篮响应 ====================

// MutationResp 写操作统一响应
type MutationResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
