package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"
	"retail_procurement_v1/pkg/feed"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==================== CatalogService 目录导入服务 ====================

// ImportStats 一次导入的统计结果
type ImportStats struct {
	ShopID     int64 `json:"shop_id"`
	Categories int   `json:"categories"`
	Products   int   `json:"products"`
	Parameters int   `json:"parameters"`
}

// CatalogService 目录导入服务
// 核心语义：拉取 feed → 在一个事务里对店铺报价做全量替换
type CatalogService struct {
	uow      *repository.CatalogUnitOfWork
	users    repository.UserRepository
	syncLogs repository.SyncLogRepository
	storage  *StorageService // 可为 nil（未配置归档）
	client   *resty.Client
	log      *zap.Logger
}

// NewCatalogService 创建目录导入服务
func NewCatalogService(
	uow *repository.CatalogUnitOfWork,
	users repository.UserRepository,
	syncLogs repository.SyncLogRepository,
	storage *StorageService,
	client *resty.Client,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{
		uow:      uow,
		users:    users,
		syncLogs: syncLogs,
		storage:  storage,
		client:   client,
		log:      log,
	}
}

// ImportFromURL 按 URL 拉取价目表并导入
// 调用方必须是 shop 角色；url 不能为空
func (s *CatalogService) ImportFromURL(ctx context.Context, userID int64, url string) (*ImportStats, error) {
	if url == "" {
		return nil, NewValidationError("url", "不能为空")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrForbidden
	}
	if user.Role != model.RoleShop {
		return nil, ErrForbidden
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("拉取 feed 失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("拉取 feed 失败: 状态码 %d", resp.StatusCode())
	}

	doc, err := feed.Parse(resp.Body())
	if err != nil {
		return nil, NewValidationError("feed", err.Error())
	}

	start := time.Now()
	stats, err := s.ImportDocument(ctx, userID, doc)

	// 导入流水：成功失败都记一条，RawFeed 存快照
	s.writeSyncLog(ctx, stats, url, doc, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	// 归档原始 feed，失败只告警不影响导入结果
	if s.storage != nil {
		key := fmt.Sprintf("%d/%s.yaml", stats.ShopID, start.UTC().Format("20060102T150405"))
		if _, aerr := s.storage.Upload(ctx, resp.Body(), key, "application/yaml"); aerr != nil {
			s.log.Warn("feed 归档失败", zap.Int64("shop_id", stats.ShopID), zap.Error(aerr))
		}
	}

	return stats, nil
}

// ImportDocument 把一份已解析的 feed 全量导入
// 整个替换在一个事务里执行：任何一步失败，全部回滚，旧目录保持可见
func (s *CatalogService) ImportDocument(ctx context.Context, userID int64, doc *feed.Document) (*ImportStats, error) {
	stats := &ImportStats{}

	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		// 1. 店铺 get-or-create：按归属用户定位，属性以 feed 为准
		shop := &model.Shop{
			Name:   doc.Shop.Name,
			URL:    doc.Shop.URL,
			Status: doc.Shop.Status,
			UserID: &userID,
		}
		if err := tx.Shops.GetOrCreate(ctx, shop); err != nil {
			return fmt.Errorf("店铺 get-or-create 失败: %w", err)
		}
		stats.ShopID = shop.ID

		// 2. 类别：显式 id 取或建，并挂到店铺
		for _, c := range doc.Categories {
			category, err := tx.Categories.GetOrCreate(ctx, c.ID, c.Name)
			if err != nil {
				return fmt.Errorf("类别 %d 处理失败: %w", c.ID, err)
			}
			if err := tx.Categories.LinkShop(ctx, category, shop); err != nil {
				return fmt.Errorf("类别 %d 关联店铺失败: %w", c.ID, err)
			}
			stats.Categories++
		}

		// 3. 旧报价整体删除（generation 替换的前半步）
		// 在途订单还挂着旧报价时外键会拦下来，这时给调用方一个明确的冲突而不是 500
		if _, err := tx.ProductInfos.DeleteByShop(ctx, shop.ID); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrConflict
			}
			return fmt.Errorf("清理旧报价失败: %w", err)
		}

		// 4. 逐条商品重建
		for i, g := range doc.Goods {
			product, err := tx.Products.GetOrCreate(ctx, g.Name, g.Category)
			if err != nil {
				return fmt.Errorf("goods[%d] 商品 get-or-create 失败: %w", i, err)
			}

			info := &model.ProductInfo{
				ProductID: product.ID,
				ShopID:    shop.ID,
				Name:      g.Model,
				Quantity:  g.Quantity,
				Price:     g.Price,
				PriceRRC:  g.PriceRRC,
			}
			if err := tx.ProductInfos.Create(ctx, info); err != nil {
				return fmt.Errorf("goods[%d] 报价写入失败: %w", i, err)
			}
			stats.Products++

			for name, value := range g.Parameters {
				param, err := tx.Parameters.GetOrCreate(ctx, name)
				if err != nil {
					return fmt.Errorf("goods[%d] 参数 %q 处理失败: %w", i, name, err)
				}
				pp := &model.ProductParameter{
					ProductInfoID: info.ID,
					ParameterID:   param.ID,
					Value:         fmt.Sprint(value),
				}
				if err := tx.ProductParameters.Create(ctx, pp); err != nil {
					return fmt.Errorf("goods[%d] 参数 %q 写入失败: %w", i, name, err)
				}
				stats.Parameters++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	s.log.Info("目录导入完成",
		zap.Int64("shop_id", stats.ShopID),
		zap.Int("categories", stats.Categories),
		zap.Int("products", stats.Products),
		zap.Int("parameters", stats.Parameters))
	return stats, nil
}

func (s *CatalogService) writeSyncLog(ctx context.Context, stats *ImportStats, source string, doc *feed.Document, took time.Duration, importErr error) {
	entry := &model.SyncLog{
		ShopID:     stats.ShopID,
		Source:     source,
		Categories: stats.Categories,
		Products:   stats.Products,
		Parameters: stats.Parameters,
		TookMs:     took.Milliseconds(),
	}
	if importErr != nil {
		entry.Error = importErr.Error()
	}
	if raw, err := json.Marshal(doc); err == nil {
		entry.RawFeed = raw
	}
	if err := s.syncLogs.Create(ctx, entry); err != nil {
		s.log.Warn("写导入流水失败", zap.Error(err))
	}
}
