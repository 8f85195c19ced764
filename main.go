package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retail_procurement_v1/internal/config"
	"retail_procurement_v1/internal/controller"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"
	"retail_procurement_v1/internal/router"
	"retail_procurement_v1/internal/service"
	"retail_procurement_v1/internal/task"
	"retail_procurement_v1/pkg/database"
	"retail_procurement_v1/pkg/logger"
	"retail_procurement_v1/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. 配置与日志
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	// 2. 初始化数据库
	db := initDatabase(cfg, log)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg, log)

	// 4. 启动定时任务
	tm := initTasks(deps, cfg, log)
	defer tm.Stop()

	// 5. 初始化路由
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	router.InitRoutes(r, deps.Controllers, deps.JWT)

	// 6. 启动服务
	startServer(r, cfg, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	JWT         *middleware.JWTManager
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Users      repository.UserRepository
	Contacts   repository.ContactRepository
	Shops      repository.ShopRepository
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Infos      repository.ProductInfoRepository
	Orders     repository.OrderRepository
	SyncLogs   repository.SyncLogRepository
	CatalogUow *repository.CatalogUnitOfWork
	BasketUow  *repository.BasketUnitOfWork
}

// Services 服务集合
type Services struct {
	Catalog *service.CatalogService
	Basket  *service.BasketService
	Order   *service.OrderService
	Shop    *service.ShopService
	Auth    *service.AuthService
	Storage *service.StorageService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := database.InitDB(cfg.Database.DSN(),
		// Identity
		&model.User{}, &model.Contact{},
		// Catalog
		&model.Shop{}, &model.Category{},
		&model.Product{}, &model.ProductInfo{},
		&model.Parameter{}, &model.ProductParameter{},
		// Order
		&model.Order{}, &model.OrderItem{},
		// Ops
		&model.SyncLog{},
	)
	if err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}
	log.Info("数据库连接成功")
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Dependencies {
	// -------- JWT --------
	jwtm := middleware.NewJWTManager(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.SecretKey,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		Issuer:          cfg.JWT.Issuer,
	})

	// -------- Repo 层 --------
	repos := &Repositories{
		Users:      repository.NewUserRepository(db),
		Contacts:   repository.NewContactRepository(db),
		Shops:      repository.NewShopRepository(db),
		Categories: repository.NewCategoryRepository(db),
		Products:   repository.NewProductRepository(db),
		Infos:      repository.NewProductInfoRepository(db),
		Orders:     repository.NewOrderRepository(db),
		SyncLogs:   repository.NewSyncLogRepository(db),
		CatalogUow: repository.NewCatalogUnitOfWork(db),
		BasketUow:  repository.NewBasketUnitOfWork(db),
	}

	// -------- 归档存储（可选） --------
	storageSvc := initStorageService(cfg, log)

	// -------- 出站 HTTP --------
	client := utils.NewFeedClient(cfg.Sync.HTTPTimeout)

	// -------- 业务服务 --------
	services := &Services{
		Storage: storageSvc,
		Catalog: service.NewCatalogService(repos.CatalogUow, repos.Users, repos.SyncLogs, storageSvc, client, log),
		Basket:  service.NewBasketService(repos.BasketUow, log),
		Order:   service.NewOrderService(repos.Orders, repos.Users, log),
		Shop:    service.NewShopService(repos.Shops, repos.Categories, repos.Products, repos.Infos, log),
		Auth:    service.NewAuthService(repos.Users, client, cfg.Auth.ProviderURL, jwtm, log),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(services.Catalog),
		Shop:    controller.NewShopController(services.Shop),
		Basket:  controller.NewBasketController(services.Basket),
		Order:   controller.NewOrderController(services.Order),
		Auth:    controller.NewAuthController(services.Auth),
	}

	return &Dependencies{
		DB:          db,
		JWT:         jwtm,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorageService 初始化归档存储，未配置时返回 nil（不归档）
func initStorageService(cfg *config.Config, log *zap.Logger) *service.StorageService {
	if cfg.Storage.Provider == "" {
		return nil
	}
	storageSvc, err := service.NewStorageService(&service.StorageConfig{
		Provider:  cfg.Storage.Provider,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		BasePath:  cfg.Storage.BasePath,
		LocalDir:  cfg.Storage.LocalDir,
	})
	if err != nil {
		log.Warn("归档存储初始化失败，本次运行不归档", zap.Error(err))
		return nil
	}
	return storageSvc
}

// initTasks 初始化定时任务
func initTasks(deps *Dependencies, cfg *config.Config, log *zap.Logger) *task.TaskManager {
	tm := task.NewTaskManager(log)
	if cfg.Sync.Enabled {
		syncTask := task.NewCatalogSyncTask(deps.Repos.Shops, deps.Services.Catalog, cfg.Sync.Concurrency, log)
		if err := tm.RegisterCatalogSync(cfg.Sync.Cron, syncTask); err != nil {
			log.Fatal("定时任务注册失败", zap.Error(err))
		}
	}
	tm.Start()
	return tm
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("服务启动", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务强制关闭", zap.Error(err))
	}

	log.Info("服务已退出")
}
