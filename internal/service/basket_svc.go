package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==================== 输入结构 ====================

// BasketItemAdd 加购一条
type BasketItemAdd struct {
	ProductInfoID int64 `json:"product_info"`
	Quantity      int   `json:"quantity"`
}

// BasketItemUpdate 改数量一条
// id / quantity 故意收成 any：类型不是整数的条目按"静默跳过"处理，
// 而不是让整个请求失败
type BasketItemUpdate struct {
	ID       any `json:"id"`
	Quantity any `json:"quantity"`
}

// ==================== BasketService 购物篮服务 ====================

// BasketService 购物篮服务
// 所有操作都限定在 (当前用户, status='basket') 的订单上，购物篮首次触碰时自动创建
type BasketService struct {
	uow *repository.BasketUnitOfWork
	log *zap.Logger
}

// NewBasketService 创建购物篮服务
func NewBasketService(uow *repository.BasketUnitOfWork, log *zap.Logger) *BasketService {
	return &BasketService{uow: uow, log: log}
}

// AddItems 批量加购
// 整批在一个事务里执行：任何一条校验失败或写入失败，整批回滚。
// 返回创建条数；错误信息带上出错条目的下标
func (s *BasketService) AddItems(ctx context.Context, userID int64, items []BasketItemAdd) (int, error) {
	if len(items) == 0 {
		return 0, NewValidationError("items", "不能为空")
	}

	basket, err := s.uow.Orders.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return 0, err
	}

	created := 0
	err = s.uow.Transaction(ctx, func(tx *repository.BasketUnitOfWork) error {
		for i, item := range items {
			if item.Quantity < 1 {
				return NewValidationError(fmt.Sprintf("items[%d].quantity", i), "必须 >= 1")
			}
			ok, err := tx.ProductInfos.Exists(ctx, item.ProductInfoID)
			if err != nil {
				return err
			}
			if !ok {
				return NewValidationError(fmt.Sprintf("items[%d].product_info", i), "报价不存在")
			}

			err = tx.Items.Create(ctx, &model.OrderItem{
				OrderID:       basket.ID,
				ProductInfoID: item.ProductInfoID,
				Quantity:      item.Quantity,
			})
			if err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return NewValidationError(fmt.Sprintf("items[%d].product_info", i), "已在购物篮中")
				}
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// RemoveItems 按逗号分隔的 id 串批量删除
// 非数字 token 跳过；删除谓词带 order_id，不属于自己购物篮的 id 命中 0 行，
// 这是安全的 no-op 而不是错误。返回删除条数
func (s *BasketService) RemoveItems(ctx context.Context, userID int64, itemsCSV string) (int64, error) {
	if strings.TrimSpace(itemsCSV) == "" {
		return 0, NewValidationError("items", "不能为空")
	}

	var ids []int64
	for _, token := range strings.Split(itemsCSV, ",") {
		token = strings.TrimSpace(token)
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, NewValidationError("items", "没有合法的 id")
	}

	basket, err := s.uow.Orders.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.uow.Items.DeleteScoped(ctx, basket.ID, ids)
}

// UpdateQuantities 批量改数量
// id 或 quantity 不是整数、或数量小于 1 的条目静默跳过（不报错）；
// 不属于当前购物篮的 id 更新 0 行。整批一个事务，返回实际更新行数
func (s *BasketService) UpdateQuantities(ctx context.Context, userID int64, items []BasketItemUpdate) (int64, error) {
	if len(items) == 0 {
		return 0, NewValidationError("items", "不能为空")
	}

	basket, err := s.uow.Orders.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return 0, err
	}

	var updated int64
	err = s.uow.Transaction(ctx, func(tx *repository.BasketUnitOfWork) error {
		for _, item := range items {
			id, ok := asInt64(item.ID)
			if !ok {
				continue
			}
			qty, ok := asInt64(item.Quantity)
			if !ok || qty < 1 {
				// 数量和加购同一条底线：至少为 1
				continue
			}
			n, err := tx.Items.UpdateQuantityScoped(ctx, basket.ID, id, int(qty))
			if err != nil {
				return err
			}
			updated += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// GetBasket 读取购物篮
// 首次触碰自动建空篮；订单项带全部关联链，TotalSum 由 SQL 聚合算出
func (s *BasketService) GetBasket(ctx context.Context, userID int64) (*model.Order, error) {
	if _, err := s.uow.Orders.GetOrCreateBasket(ctx, userID); err != nil {
		return nil, err
	}

	basket, err := s.uow.Orders.GetBasketWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	sums, err := s.uow.Orders.TotalSums(ctx, []int64{basket.ID})
	if err != nil {
		return nil, err
	}
	basket.TotalSum = sums[basket.ID]
	return basket, nil
}

// asInt64 宽松整数判定：JSON 解出来的数字是 float64，只有整数值才算合法；
// 字符串、小数、布尔等一律不算
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
