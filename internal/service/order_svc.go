package service

import (
	"context"

	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"

	"go.uber.org/zap"
)

// ==================== OrderService 订单查询服务 ====================

// OrderService 订单查询服务（店铺侧 + 买家侧）
// 履约状态机 (new → confirmed → ... ) 不在本服务内，这里只做读取和汇总
type OrderService struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	log    *zap.Logger
}

// NewOrderService 创建订单查询服务
func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, log: log}
}

// PartnerOrders 店铺侧订单视图
// 调用方必须是 shop 角色；返回订单项引用了其店铺报价的全部非购物篮订单，
// 联系方式预加载，TotalSum 聚合填充
func (s *OrderService) PartnerOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrForbidden
	}
	if user.Role != model.RoleShop {
		return nil, ErrForbidden
	}

	orders, err := s.orders.ListPartnerOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.fillTotals(ctx, orders)
}

// MyOrders 买家自己的非购物篮订单
func (s *OrderService) MyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orders.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.fillTotals(ctx, orders)
}

func (s *OrderService) fillTotals(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	sums, err := s.orders.TotalSums(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].TotalSum = sums[orders[i].ID]
	}
	return orders, nil
}
