package task

import (
	"context"
	"sync"

	"retail_procurement_v1/internal/repository"
	"retail_procurement_v1/internal/service"

	"go.uber.org/zap"
)

// ==================== CatalogSyncTask 目录定时同步 ====================

// CatalogSyncTask 定时把有 feed 地址且在接单的店铺目录重拉一遍
// 单个店铺失败只记日志，不影响其他店铺
type CatalogSyncTask struct {
	shops       repository.ShopRepository
	catalog     *service.CatalogService
	concurrency int
	log         *zap.Logger
}

// NewCatalogSyncTask 创建目录同步任务
func NewCatalogSyncTask(shops repository.ShopRepository, catalog *service.CatalogService, concurrency int, log *zap.Logger) *CatalogSyncTask {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &CatalogSyncTask{
		shops:       shops,
		catalog:     catalog,
		concurrency: concurrency,
		log:         log,
	}
}

// Run cron 入口
func (t *CatalogSyncTask) Run() {
	t.RunOnce(context.Background())
}

// RunOnce 同步一轮
func (t *CatalogSyncTask) RunOnce(ctx context.Context) {
	shops, err := t.shops.ListWithURL(ctx)
	if err != nil {
		t.log.Error("取待同步店铺失败", zap.Error(err))
		return
	}
	if len(shops) == 0 {
		return
	}
	t.log.Info("目录同步开始", zap.Int("shops", len(shops)))

	// 并发上限用信号量控制
	sem := make(chan struct{}, t.concurrency)
	var wg sync.WaitGroup
	for _, shop := range shops {
		wg.Add(1)
		sem <- struct{}{}
		go func(shopID, userID int64, url string) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := t.catalog.ImportFromURL(ctx, userID, url); err != nil {
				t.log.Warn("店铺目录同步失败",
					zap.Int64("shop_id", shopID),
					zap.String("url", url),
					zap.Error(err))
			}
		}(shop.ID, *shop.UserID, shop.URL)
	}
	wg.Wait()

	t.log.Info("目录同步结束", zap.Int("shops", len(shops)))
}
