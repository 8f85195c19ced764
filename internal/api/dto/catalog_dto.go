package dto

// ==================== 目录导入 ====================

// CatalogUpdateRequest 目录导入请求，url 指向供应商的 YAML 价目表
type CatalogUpdateRequest struct {
	URL string `json:"url" binding:"required"`
}

// CatalogUpdateResp 导入结果
type CatalogUpdateResp struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	ShopID     int64  `json:"shop_id"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
	Parameters int    `json:"parameters"`
}

// ==================== 店铺 ====================

// ShopStatusRequest 接单状态切换请求
// 指针类型区分 "没传" 和 "传了 false"
type ShopStatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}
