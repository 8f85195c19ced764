package repository

import (
	"context"
	"errors"

	"retail_procurement_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	// GetOrCreateBasket 取当前用户的购物篮，没有就建
	// 并发下靠 (user_id) WHERE status='basket' 的部分唯一索引兜底
	GetOrCreateBasket(ctx context.Context, userID int64) (*model.Order, error)
	// GetBasketWithItems 购物篮 + 订单项，关联链全部预加载
	GetBasketWithItems(ctx context.Context, userID int64) (*model.Order, error)
	// ListPartnerOrders 店铺侧订单：订单项引用了该用户店铺报价的全部非购物篮订单
	ListPartnerOrders(ctx context.Context, shopUserID int64) ([]model.Order, error)
	// ListUserOrders 买家自己的非购物篮订单
	ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error)
	// TotalSums 一批订单的 Σ(quantity × price)，SQL 聚合
	TotalSums(ctx context.Context, orderIDs []int64) (map[int64]int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetOrCreateBasket(ctx context.Context, userID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusBasket).
		First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order = model.Order{UserID: userID, Status: model.OrderStatusBasket}
	err = r.db.WithContext(ctx).Create(&order).Error
	if err == nil {
		return &order, nil
	}
	// 并发 create 输掉唯一索引竞争：重读即可
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing model.Order
		if err2 := r.db.WithContext(ctx).
			Where("user_id = ? AND status = ?", userID, model.OrderStatusBasket).
			First(&existing).Error; err2 == nil {
			return &existing, nil
		}
	}
	return nil, err
}

func (r *orderRepository) GetBasketWithItems(ctx context.Context, userID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusBasket).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id")
		}).
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.ProductParameters.Parameter").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListPartnerOrders(ctx context.Context, shopUserID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Distinct("orders.*").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.user_id = ?", shopUserID).
		Where("orders.status <> ?", model.OrderStatusBasket).
		Preload("Contact").
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.ProductParameters.Parameter").
		Order("orders.id").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, model.OrderStatusBasket).
		Preload("Contact").
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.ProductParameters.Parameter").
		Order("id").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) TotalSums(ctx context.Context, orderIDs []int64) (map[int64]int64, error) {
	sums := make(map[int64]int64, len(orderIDs))
	if len(orderIDs) == 0 {
		return sums, nil
	}
	type row struct {
		OrderID int64
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Select("order_items.order_id AS order_id, COALESCE(SUM(order_items.quantity * product_infos.price), 0) AS total").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Where("order_items.order_id IN ?", orderIDs).
		Group("order_items.order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		sums[r.OrderID] = r.Total
	}
	return sums, nil
}

// ==================== OrderItemRepository 订单项仓库 ====================

// OrderItemRepository 订单项仓库接口
// 删除和改数量都带 order_id 谓词：归属校验做在查询条件里，不单独信任 id
type OrderItemRepository interface {
	Create(ctx context.Context, item *model.OrderItem) error
	DeleteScoped(ctx context.Context, orderID int64, ids []int64) (int64, error)
	UpdateQuantityScoped(ctx context.Context, orderID, id int64, quantity int) (int64, error)
	CountByOrder(ctx context.Context, orderID int64) (int64, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository 创建订单项仓库
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *orderItemRepository) DeleteScoped(ctx context.Context, orderID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, ids).
		Delete(&model.OrderItem{})
	return result.RowsAffected, result.Error
}

func (r *orderItemRepository) UpdateQuantityScoped(ctx context.Context, orderID, id int64, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Where("order_id = ? AND id = ?", orderID, id).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

func (r *orderItemRepository) CountByOrder(ctx context.Context, orderID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

// ==================== SyncLogRepository 导入流水仓库 ====================

// SyncLogRepository 导入流水仓库接口
type SyncLogRepository interface {
	Create(ctx context.Context, log *model.SyncLog) error
	ListByShop(ctx context.Context, shopID int64, limit int) ([]model.SyncLog, error)
}

type syncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository 创建导入流水仓库
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Create(ctx context.Context, log *model.SyncLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *syncLogRepository) ListByShop(ctx context.Context, shopID int64, limit int) ([]model.SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []model.SyncLog
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
