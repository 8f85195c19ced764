package repository

import (
	"context"

	"gorm.io/gorm"
)

// ==================== CatalogUnitOfWork 目录导入工作单元 ====================

// CatalogUnitOfWork 目录导入工作单元（事务）
// 一次全量替换跨五张表，要么全部落库要么全部回滚
type CatalogUnitOfWork struct {
	db                *gorm.DB
	Shops             ShopRepository
	Categories        CategoryRepository
	Products          ProductRepository
	ProductInfos      ProductInfoRepository
	Parameters        ParameterRepository
	ProductParameters ProductParameterRepository
}

// NewCatalogUnitOfWork 创建工作单元
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{
		db:                db,
		Shops:             NewShopRepository(db),
		Categories:        NewCategoryRepository(db),
		Products:          NewProductRepository(db),
		ProductInfos:      NewProductInfoRepository(db),
		Parameters:        NewParameterRepository(db),
		ProductParameters: NewProductParameterRepository(db),
	}
}

// Transaction 执行事务
func (u *CatalogUnitOfWork) Transaction(ctx context.Context, fn func(uow *CatalogUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCatalogUnitOfWork(tx))
	})
}

// ==================== BasketUnitOfWork 购物篮工作单元 ====================

// BasketUnitOfWork 购物篮工作单元（事务）
// 批量加购/改数量需要跨多行的原子性：任何一条失败，整批回滚
type BasketUnitOfWork struct {
	db           *gorm.DB
	Orders       OrderRepository
	Items        OrderItemRepository
	ProductInfos ProductInfoRepository
}

// NewBasketUnitOfWork 创建工作单元
func NewBasketUnitOfWork(db *gorm.DB) *BasketUnitOfWork {
	return &BasketUnitOfWork{
		db:           db,
		Orders:       NewOrderRepository(db),
		Items:        NewOrderItemRepository(db),
		ProductInfos: NewProductInfoRepository(db),
	}
}

// Transaction 执行事务
func (u *BasketUnitOfWork) Transaction(ctx context.Context, fn func(uow *BasketUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewBasketUnitOfWork(tx))
	})
}
