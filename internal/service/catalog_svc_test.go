package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"
	"retail_procurement_v1/pkg/feed"
	"retail_procurement_v1/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newCatalogService(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		repository.NewCatalogUnitOfWork(db),
		repository.NewUserRepository(db),
		repository.NewSyncLogRepository(db),
		nil,
		utils.NewFeedClient(5*time.Second),
		zap.NewNop(),
	)
}

func sampleDocument() *feed.Document {
	return &feed.Document{
		Shop: feed.ShopInfo{Name: "Связной", URL: "http://svyaznoy.example/feed.yaml", Status: true},
		Categories: []feed.Category{
			{ID: 224, Name: "Смартфоны"},
			{ID: 15, Name: "Аксессуары"},
		},
		Goods: []feed.Good{
			{
				Name:     "Смартфон Apple iPhone XS Max 512GB (золотистый)",
				Category: 224,
				Model:    "apple/iphone/xs-max",
				Price:    11000000,
				PriceRRC: 11590000,
				Quantity: 14,
				Parameters: map[string]any{
					"Диагональ (дюйм)":      6.5,
					"Встроенная память (Гб)": 512,
					"Цвет":                  "золотистый",
				},
			},
			{
				Name:     "Чехол для iPhone XS Max",
				Category: 15,
				Model:    "case/iphone/xs-max",
				Price:    150000,
				PriceRRC: 199000,
				Quantity: 50,
				Parameters: map[string]any{
					"Цвет": "чёрный",
				},
			},
		},
	}
}

func TestCatalogImportDocumentCounts(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	user := &model.User{Email: "shop@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	mustCreate(t, db, user)

	stats, err := svc.ImportDocument(context.Background(), user.ID, sampleDocument())
	if err != nil {
		t.Fatalf("ImportDocument 失败: %v", err)
	}
	if stats.Categories != 2 || stats.Products != 2 || stats.Parameters != 4 {
		t.Errorf("统计不符: %+v", stats)
	}

	var shops, infos, params int64
	db.Model(&model.Shop{}).Count(&shops)
	db.Model(&model.ProductInfo{}).Count(&infos)
	db.Model(&model.ProductParameter{}).Count(&params)
	if shops != 1 {
		t.Errorf("期望 1 个店铺, 实际 %d", shops)
	}
	if infos != 2 {
		t.Errorf("期望 2 条报价, 实际 %d", infos)
	}
	// 每条 (报价, 参数) 组合恰好一行
	if params != 4 {
		t.Errorf("期望 4 条参数取值, 实际 %d", params)
	}

	var distinct int64
	db.Raw("SELECT COUNT(*) FROM (SELECT DISTINCT product_info_id, parameter_id FROM product_parameters)").
		Scan(&distinct)
	if distinct != params {
		t.Errorf("存在重复的 (报价, 参数) 组合: distinct=%d total=%d", distinct, params)
	}
}

func TestCatalogImportTwiceIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	user := &model.User{Email: "shop@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	mustCreate(t, db, user)

	doc := sampleDocument()
	first, err := svc.ImportDocument(context.Background(), user.ID, doc)
	if err != nil {
		t.Fatalf("第一次导入失败: %v", err)
	}

	var oldIDs []int64
	db.Model(&model.ProductInfo{}).Pluck("id", &oldIDs)

	second, err := svc.ImportDocument(context.Background(), user.ID, doc)
	if err != nil {
		t.Fatalf("第二次导入失败: %v", err)
	}
	if first.ShopID != second.ShopID {
		t.Errorf("重复导入创建了新店铺: %d -> %d", first.ShopID, second.ShopID)
	}

	var shops, categories, products, infos, params int64
	db.Model(&model.Shop{}).Count(&shops)
	db.Model(&model.Category{}).Count(&categories)
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.ProductInfo{}).Count(&infos)
	db.Model(&model.ProductParameter{}).Count(&params)

	if shops != 1 || categories != 2 || products != 2 {
		t.Errorf("基础维度翻倍了: shops=%d categories=%d products=%d", shops, categories, products)
	}
	if infos != 2 || params != 4 {
		t.Errorf("报价未做整体替换: infos=%d params=%d", infos, params)
	}

	// 报价行是删除重建的，旧 id 不应存活
	var survivors int64
	db.Model(&model.ProductInfo{}).Where("id IN ?", oldIDs).Count(&survivors)
	if survivors != 0 {
		t.Errorf("旧报价行残留 %d 条", survivors)
	}
}

func TestCatalogImportFromURL(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	shopUser := &model.User{Email: "shop@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	buyer := &model.User{Email: "buyer@example.com", Password: "x", Role: model.RoleBuyer, IsActive: true}
	mustCreate(t, db, shopUser)
	mustCreate(t, db, buyer)

	const feedYAML = `
shop:
  name: Связной
  url: http://svyaznoy.example
  status: true
categories:
  - id: 224
    name: Смартфоны
goods:
  - name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    category: 224
    model: apple/iphone/xs-max
    price: 11000000
    price_rrc: 11590000
    quantity: 14
    parameters:
      "Цвет": золотистый
`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(feedYAML))
	}))
	defer server.Close()

	stats, err := svc.ImportFromURL(context.Background(), shopUser.ID, server.URL)
	if err != nil {
		t.Fatalf("ImportFromURL 失败: %v", err)
	}
	if stats.Products != 1 || stats.Parameters != 1 {
		t.Errorf("统计不符: %+v", stats)
	}

	// 导入流水必须落一条，带原始快照
	var logs []model.SyncLog
	db.Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("期望 1 条导入流水, 实际 %d", len(logs))
	}
	if logs[0].ShopID != stats.ShopID || logs[0].Source != server.URL {
		t.Errorf("流水内容不符: %+v", logs[0])
	}
	if len(logs[0].RawFeed) == 0 {
		t.Error("流水缺少 feed 快照")
	}
}

func TestCatalogImportRejectsBuyer(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	buyer := &model.User{Email: "buyer@example.com", Password: "x", Role: model.RoleBuyer, IsActive: true}
	mustCreate(t, db, buyer)

	_, err := svc.ImportFromURL(context.Background(), buyer.ID, "http://feed.example/price.yaml")
	if err != ErrForbidden {
		t.Fatalf("期望 ErrForbidden, 实际 %v", err)
	}

	var shops int64
	db.Model(&model.Shop{}).Count(&shops)
	if shops != 0 {
		t.Errorf("被拒绝的导入不应产生任何目录变更, shops=%d", shops)
	}
}

func TestCatalogImportRejectsEmptyURL(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	_, err := svc.ImportFromURL(context.Background(), 1, "")
	if !IsValidation(err) {
		t.Fatalf("期望校验错误, 实际 %v", err)
	}
}

func TestCatalogImportConflictsWithLiveOrders(t *testing.T) {
	db := newTestDB(t)
	// sqlite 默认不启用外键，这个场景恰恰考外键：限制到单连接再打开
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("开启外键失败: %v", err)
	}
	svc := newCatalogService(db)

	user := &model.User{Email: "shop@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	mustCreate(t, db, user)

	if _, err := svc.ImportDocument(context.Background(), user.ID, sampleDocument()); err != nil {
		t.Fatalf("首次导入失败: %v", err)
	}

	var info model.ProductInfo
	db.First(&info)
	order := &model.Order{UserID: 42, Status: model.OrderStatusNew}
	mustCreate(t, db, order)
	mustCreate(t, db, &model.OrderItem{OrderID: order.ID, ProductInfoID: info.ID, Quantity: 1})

	// 旧报价被在途订单引用：重导入必须给出明确的冲突，不能是裸内部错误
	_, err = svc.ImportDocument(context.Background(), user.ID, sampleDocument())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("期望 ErrConflict, 实际 %v", err)
	}

	// 整个替换回滚，旧目录保持可见
	var infos int64
	db.Model(&model.ProductInfo{}).Count(&infos)
	if infos != 2 {
		t.Errorf("冲突后旧报价应完整保留, 实际 %d", infos)
	}
}

func TestCatalogSharedProductAcrossShops(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)

	userA := &model.User{Email: "a@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	userB := &model.User{Email: "b@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	mustCreate(t, db, userA)
	mustCreate(t, db, userB)

	doc := sampleDocument()
	if _, err := svc.ImportDocument(context.Background(), userA.ID, doc); err != nil {
		t.Fatalf("店铺 A 导入失败: %v", err)
	}

	docB := sampleDocument()
	docB.Shop.Name = "Евросеть"
	docB.Shop.URL = "http://euroset.example/feed.yaml"
	if _, err := svc.ImportDocument(context.Background(), userB.ID, docB); err != nil {
		t.Fatalf("店铺 B 导入失败: %v", err)
	}

	// 同名同类别的商品跨店铺共享一行，报价各归各店
	var products, infos int64
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.ProductInfo{}).Count(&infos)
	if products != 2 {
		t.Errorf("期望商品去重为 2, 实际 %d", products)
	}
	if infos != 4 {
		t.Errorf("期望 4 条报价 (2 店铺 × 2 商品), 实际 %d", infos)
	}
}
