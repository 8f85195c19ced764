package repository

import (
	"context"
	"errors"

	"retail_procurement_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== ShopRepository 店铺仓库 ====================

// ShopRepository 店铺仓库接口
type ShopRepository interface {
	// GetOrCreate 按归属用户取或建：用户已有店铺就刷新名称/地址/状态（1:1 约束），
	// 没有就新建
	GetOrCreate(ctx context.Context, shop *model.Shop) error
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Shop, error)
	// List 店铺列表，status 为 nil 时不过滤
	List(ctx context.Context, status *bool) ([]model.Shop, error)
	// ListWithURL 有 feed 地址且在接单的店铺（定时同步用）
	ListWithURL(ctx context.Context) ([]model.Shop, error)
	UpdateStatus(ctx context.Context, id int64, status bool) (int64, error)
}

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓库
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) GetOrCreate(ctx context.Context, shop *model.Shop) error {
	var found model.Shop
	err := r.db.WithContext(ctx).
		Where("user_id = ?", shop.UserID).
		First(&found).Error
	if err == nil {
		// feed 里的店铺描述是权威来源，重导入时刷新属性
		updates := map[string]interface{}{
			"name":   shop.Name,
			"url":    shop.URL,
			"status": shop.Status,
		}
		if uerr := r.db.WithContext(ctx).Model(&found).Updates(updates).Error; uerr != nil {
			return uerr
		}
		*shop = found
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) GetByUserID(ctx context.Context, userID int64) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) List(ctx context.Context, status *bool) ([]model.Shop, error) {
	var shops []model.Shop
	db := r.db.WithContext(ctx)
	if status != nil {
		db = db.Where("status = ?", *status)
	}
	err := db.Order("id").Find(&shops).Error
	return shops, err
}

func (r *shopRepository) ListWithURL(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Where("url <> '' AND status = ? AND user_id IS NOT NULL", true).
		Find(&shops).Error
	return shops, err
}

func (r *shopRepository) UpdateStatus(ctx context.Context, id int64, status bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// ==================== CategoryRepository 类别仓库 ====================

// CategoryRepository 类别仓库接口
type CategoryRepository interface {
	// GetOrCreate 按 feed 提供的显式 id 取或建
	GetOrCreate(ctx context.Context, id int64, name string) (*model.Category, error)
	// LinkShop 建立类别和店铺的多对多关联（幂等）
	LinkShop(ctx context.Context, category *model.Category, shop *model.Shop) error
	List(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建类别仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetOrCreate(ctx context.Context, id int64, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND name = ?", id, name).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = model.Category{ID: id, Name: name}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) LinkShop(ctx context.Context, category *model.Category, shop *model.Shop) error {
	// Association.Append 对已存在的关联是幂等的
	return r.db.WithContext(ctx).Model(category).Association("Shops").Append(shop)
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}
