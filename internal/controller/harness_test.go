package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"retail_procurement_v1/internal/controller"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"
	"retail_procurement_v1/internal/router"
	"retail_procurement_v1/internal/service"
	"retail_procurement_v1/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试统一用默认签名配置
var testJWT = middleware.NewJWTManager(middleware.DefaultJWTConfig())

// newTestApp 起一套完整应用：内存库 + 全部服务 + 真实路由
func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{}, &model.Contact{},
		&model.Shop{}, &model.Category{},
		&model.Product{}, &model.ProductInfo{},
		&model.Parameter{}, &model.ProductParameter{},
		&model.Order{}, &model.OrderItem{},
		&model.SyncLog{},
	)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	log := zap.NewNop()
	client := utils.NewFeedClient(5 * time.Second)

	users := repository.NewUserRepository(db)
	shops := repository.NewShopRepository(db)
	categories := repository.NewCategoryRepository(db)
	products := repository.NewProductRepository(db)
	infos := repository.NewProductInfoRepository(db)
	orders := repository.NewOrderRepository(db)
	syncLogs := repository.NewSyncLogRepository(db)

	catalogSvc := service.NewCatalogService(repository.NewCatalogUnitOfWork(db), users, syncLogs, nil, client, log)
	basketSvc := service.NewBasketService(repository.NewBasketUnitOfWork(db), log)
	shopSvc := service.NewShopService(shops, categories, products, infos, log)
	orderSvc := service.NewOrderService(orders, users, log)
	authSvc := service.NewAuthService(users, client, "", testJWT, log)

	engine := gin.New()
	router.InitRoutes(engine, &router.Controllers{
		Catalog: controller.NewCatalogController(catalogSvc),
		Shop:    controller.NewShopController(shopSvc),
		Basket:  controller.NewBasketController(basketSvc),
		Order:   controller.NewOrderController(orderSvc),
		Auth:    controller.NewAuthController(authSvc),
	}, testJWT)
	return engine, db
}

// newActiveUser 造一个已激活用户并签发 access token
func newActiveUser(t *testing.T, db *gorm.DB, email, role string) (*model.User, string) {
	t.Helper()
	user := &model.User{Email: email, Password: "x", Role: role, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("造用户失败: %v", err)
	}
	token, err := testJWT.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}
	return user, token
}

// seedOfferRow 造一条报价，返回 product_info id
func seedOfferRow(t *testing.T, db *gorm.DB, name string, price int64) int64 {
	t.Helper()
	category := &model.Category{ID: 224, Name: "Смартфоны"}
	db.FirstOrCreate(category, model.Category{ID: 224})

	shop := &model.Shop{Name: "Связной-" + name, Status: true}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("造店铺失败: %v", err)
	}
	product := &model.Product{Name: name, CategoryID: category.ID}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("造商品失败: %v", err)
	}
	info := &model.ProductInfo{ProductID: product.ID, ShopID: shop.ID, Name: "model", Quantity: 10, Price: price, PriceRRC: price}
	if err := db.Create(info).Error; err != nil {
		t.Fatalf("造报价失败: %v", err)
	}
	return info.ID
}

// doJSON 发一个 JSON 请求，body 传 nil 表示空请求体
func doJSON(engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("响应不是合法 JSON: %v\n%s", err, w.Body.String())
	}
	return out
}

// mustStatus 断言 HTTP 状态码
func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("期望状态 %d, 实际 %d: %s", want, w.Code, w.Body.String())
	}
}
