package model

import (
	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

// 订单状态流转：basket -> new -> confirmed -> assembled -> sent -> delivered
// canceled 可从任意非终态进入（履约流程不在本服务内，只保留枚举）
const (
	OrderStatusBasket    = "basket"    // 购物篮（未提交）
	OrderStatusNew       = "new"       // 新订单
	OrderStatusConfirmed = "confirmed" // 已确认
	OrderStatusAssembled = "assembled" // 已拣货
	OrderStatusSent      = "sent"      // 已发出
	OrderStatusDelivered = "delivered" // 已送达
	OrderStatusCanceled  = "canceled"  // 已取消
)

// ==================== Order 订单 ====================

// Order 订单主表
// 每个用户最多一个 status='basket' 的订单，由部分唯一索引在存储层保证，
// 应用层的 get-or-create 只是快捷路径
type Order struct {
	BaseModel
	UserID int64  `gorm:"not null;index;uniqueIndex:uniq_user_basket,where:status = 'basket'" json:"user_id"`
	Status string `gorm:"size:15;not null;index" json:"status"`

	ContactID *int64   `json:"contact_id"`
	Contact   *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// 汇总金额，读取时由 SQL 聚合填充，不落库
	TotalSum int64 `gorm:"-" json:"total_sum"`
}

func (Order) TableName() string { return "orders" }

// ==================== OrderItem 订单项 ====================

// OrderItem 订单里的一行：某条店铺报价 × 数量
// 同一订单内同一报价只允许一行，重复加购触发唯一约束冲突
type OrderItem struct {
	BaseModel
	OrderID       int64 `gorm:"not null;uniqueIndex:uniq_order_product_info" json:"order_id"`
	ProductInfoID int64 `gorm:"not null;uniqueIndex:uniq_order_product_info" json:"product_info_id"`
	Quantity      int   `gorm:"not null" json:"quantity"`

	ProductInfo ProductInfo `gorm:"foreignKey:ProductInfoID" json:"product_info"`
}

func (OrderItem) TableName() string { return "order_items" }

// ==================== SyncLog 导入流水 ====================

// SyncLog 一次目录导入（一个 generation）的流水记录
// RawFeed 保存原始 feed 快照（JSONB），用于排查供应商数据问题
type SyncLog struct {
	BaseModel
	ShopID     int64          `gorm:"index" json:"shop_id"`
	Source     string         `gorm:"size:255" json:"source"`
	Categories int            `json:"categories"`
	Products   int            `json:"products"`
	Parameters int            `json:"parameters"`
	TookMs     int64          `json:"took_ms"`
	Error      string         `gorm:"type:text" json:"error,omitempty"`
	RawFeed    datatypes.JSON `gorm:"type:jsonb" json:"-"`
}

func (SyncLog) TableName() string { return "sync_logs" }
