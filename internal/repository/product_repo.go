package repository

import (
	"context"
	"errors"

	"retail_procurement_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
type ProductRepository interface {
	// GetOrCreate 按 (name, category_id) 取或建
	GetOrCreate(ctx context.Context, name string, categoryID int64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetOrCreate(ctx context.Context, name string, categoryID int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	product = model.Product{Name: name, CategoryID: categoryID}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&products).Error
	return products, err
}

func (r *productRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ==================== ProductInfoRepository 报价仓库 ====================

// ProductInfoRepository 店铺报价仓库接口
type ProductInfoRepository interface {
	Create(ctx context.Context, info *model.ProductInfo) error
	// DeleteByShop 整体删除某店铺的报价（全量替换的前半步），级联带走参数值
	DeleteByShop(ctx context.Context, shopID int64) (int64, error)
	ListByShop(ctx context.Context, shopID int64) ([]model.ProductInfo, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.ProductInfo, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CountByShop(ctx context.Context, shopID int64) (int64, error)
}

type productInfoRepository struct {
	db *gorm.DB
}

// NewProductInfoRepository 创建报价仓库
func NewProductInfoRepository(db *gorm.DB) ProductInfoRepository {
	return &productInfoRepository{db: db}
}

func (r *productInfoRepository) Create(ctx context.Context, info *model.ProductInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *productInfoRepository) DeleteByShop(ctx context.Context, shopID int64) (int64, error) {
	// 外键没开数据库级联的环境（如测试用 sqlite）也要保证参数行被清掉，
	// 所以先删子表再删主表
	sub := r.db.WithContext(ctx).Model(&model.ProductInfo{}).
		Select("id").Where("shop_id = ?", shopID)
	if err := r.db.WithContext(ctx).
		Where("product_info_id IN (?)", sub).
		Delete(&model.ProductParameter{}).Error; err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Delete(&model.ProductInfo{})
	return result.RowsAffected, result.Error
}

func (r *productInfoRepository) ListByShop(ctx context.Context, shopID int64) ([]model.ProductInfo, error) {
	var infos []model.ProductInfo
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Preload("Product").
		Preload("Product.Category").
		Preload("ProductParameters.Parameter").
		Order("id").
		Find(&infos).Error
	return infos, err
}

func (r *productInfoRepository) ListByProduct(ctx context.Context, productID int64) ([]model.ProductInfo, error) {
	var infos []model.ProductInfo
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("Product").
		Preload("Product.Category").
		Preload("ProductParameters.Parameter").
		Order("id").
		Find(&infos).Error
	return infos, err
}

func (r *productInfoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductInfo{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productInfoRepository) CountByShop(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductInfo{}).Where("shop_id = ?", shopID).Count(&count).Error
	return count, err
}

// ==================== ParameterRepository 参数仓库 ====================

// ParameterRepository 参数名仓库接口
type ParameterRepository interface {
	GetOrCreate(ctx context.Context, name string) (*model.Parameter, error)
}

type parameterRepository struct {
	db *gorm.DB
}

// NewParameterRepository 创建参数仓库
func NewParameterRepository(db *gorm.DB) ParameterRepository {
	return &parameterRepository{db: db}
}

func (r *parameterRepository) GetOrCreate(ctx context.Context, name string) (*model.Parameter, error) {
	var param model.Parameter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&param).Error
	if err == nil {
		return &param, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	param = model.Parameter{Name: name}
	if err := r.db.WithContext(ctx).Create(&param).Error; err != nil {
		return nil, err
	}
	return &param, nil
}

// ==================== ProductParameterRepository 参数值仓库 ====================

// ProductParameterRepository 报价参数值仓库接口
type ProductParameterRepository interface {
	Create(ctx context.Context, pp *model.ProductParameter) error
}

type productParameterRepository struct {
	db *gorm.DB
}

// NewProductParameterRepository 创建参数值仓库
func NewProductParameterRepository(db *gorm.DB) ProductParameterRepository {
	return &productParameterRepository{db: db}
}

func (r *productParameterRepository) Create(ctx context.Context, pp *model.ProductParameter) error {
	return r.db.WithContext(ctx).Create(pp).Error
}
