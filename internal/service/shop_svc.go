package service

import (
	"context"
	"errors"

	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==================== ShopService 店铺/商品读取服务 ====================

// ShopService 店铺、类别、商品的读取接口 + 店铺接单状态切换
type ShopService struct {
	shops      repository.ShopRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	infos      repository.ProductInfoRepository
	log        *zap.Logger
}

// NewShopService 创建店铺服务
func NewShopService(
	shops repository.ShopRepository,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	infos repository.ProductInfoRepository,
	log *zap.Logger,
) *ShopService {
	return &ShopService{
		shops:      shops,
		categories: categories,
		products:   products,
		infos:      infos,
		log:        log,
	}
}

// ListShops 店铺列表，status 为 nil 时不过滤接单状态
func (s *ShopService) ListShops(ctx context.Context, status *bool) ([]model.Shop, error) {
	return s.shops.List(ctx, status)
}

// ListCategories 类别列表
func (s *ShopService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// ListProducts 商品列表
func (s *ShopService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

// ShopProducts 某店铺的全部报价
// 店铺不存在 → ErrNotFound；存在但报价为空 → 空列表（不是错误）
func (s *ShopService) ShopProducts(ctx context.Context, shopID int64) ([]model.ProductInfo, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.infos.ListByShop(ctx, shopID)
}

// AboutProduct 某商品在各店铺的报价
// 一条都没有 → ErrNotFound（查不到任何报价就视为商品不存在）
func (s *ShopService) AboutProduct(ctx context.Context, productID int64) ([]model.ProductInfo, error) {
	infos, err := s.infos.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrNotFound
	}
	return infos, nil
}

// UpdateStatus 切换店铺接单状态，仅店铺归属用户可操作
func (s *ShopService) UpdateStatus(ctx context.Context, shopID, callerID int64, status bool) (*model.Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if shop.UserID == nil || *shop.UserID != callerID {
		return nil, ErrForbidden
	}
	if _, err := s.shops.UpdateStatus(ctx, shopID, status); err != nil {
		return nil, err
	}
	shop.Status = status
	return shop, nil
}
