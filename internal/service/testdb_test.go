package service

import (
	"testing"

	"retail_procurement_v1/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 内存 sqlite + 全量建表，service 包各测试共用
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// mustCreate 造数辅助
func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("造数失败 (%T): %v", value, err)
	}
}
