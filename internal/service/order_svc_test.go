package service

import (
	"context"
	"testing"

	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// orderFixture 部署一套最小订单场景：
// 店铺用户 + 买家，店铺一条报价，买家一个已提交订单（2 件）和一个购物篮
type orderFixture struct {
	shopUser *model.User
	buyer    *model.User
	shop     *model.Shop
	info     *model.ProductInfo
	order    *model.Order
}

func seedOrderFixture(t *testing.T, db *gorm.DB) *orderFixture {
	t.Helper()

	shopUser := &model.User{Email: "shop@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	buyer := &model.User{Email: "buyer@example.com", Password: "x", Role: model.RoleBuyer, IsActive: true}
	mustCreate(t, db, shopUser)
	mustCreate(t, db, buyer)

	category := &model.Category{ID: 224, Name: "Смартфоны"}
	mustCreate(t, db, category)

	shop := &model.Shop{Name: "Связной", Status: true, UserID: &shopUser.ID}
	mustCreate(t, db, shop)

	product := &model.Product{Name: "iPhone XS Max", CategoryID: category.ID}
	mustCreate(t, db, product)

	info := &model.ProductInfo{ProductID: product.ID, ShopID: shop.ID, Name: "xs-max", Quantity: 5, Price: 11000000, PriceRRC: 11500000}
	mustCreate(t, db, info)

	contact := &model.Contact{UserID: buyer.ID, City: "Москва", Street: "Тверская", Phone: "+70000000000"}
	mustCreate(t, db, contact)

	order := &model.Order{UserID: buyer.ID, Status: model.OrderStatusNew, ContactID: &contact.ID}
	mustCreate(t, db, order)
	mustCreate(t, db, &model.OrderItem{OrderID: order.ID, ProductInfoID: info.ID, Quantity: 2})

	// 购物篮不参与任何订单列表
	basket := &model.Order{UserID: buyer.ID, Status: model.OrderStatusBasket}
	mustCreate(t, db, basket)
	mustCreate(t, db, &model.OrderItem{OrderID: basket.ID, ProductInfoID: info.ID, Quantity: 1})

	return &orderFixture{shopUser: shopUser, buyer: buyer, shop: shop, info: info, order: order}
}

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(repository.NewOrderRepository(db), repository.NewUserRepository(db), zap.NewNop())
}

func TestPartnerOrders(t *testing.T) {
	db := newTestDB(t)
	fx := seedOrderFixture(t, db)
	svc := newOrderService(db)

	orders, err := svc.PartnerOrders(context.Background(), fx.shopUser.ID)
	if err != nil {
		t.Fatalf("PartnerOrders 失败: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("期望 1 个订单 (购物篮排除), 实际 %d", len(orders))
	}
	got := orders[0]
	if got.ID != fx.order.ID {
		t.Errorf("订单不符: %d", got.ID)
	}
	if got.TotalSum != 2*11000000 {
		t.Errorf("总额不符: %d", got.TotalSum)
	}
	if got.Contact == nil || got.Contact.City != "Москва" {
		t.Error("订单缺少联系方式")
	}
	if len(got.Items) != 1 || got.Items[0].ProductInfo.ID != fx.info.ID {
		t.Error("订单项关联链不完整")
	}
}

func TestPartnerOrdersRejectsBuyer(t *testing.T) {
	db := newTestDB(t)
	fx := seedOrderFixture(t, db)
	svc := newOrderService(db)

	if _, err := svc.PartnerOrders(context.Background(), fx.buyer.ID); err != ErrForbidden {
		t.Fatalf("期望 ErrForbidden, 实际 %v", err)
	}
}

func TestPartnerOrdersOnlyOwnShop(t *testing.T) {
	db := newTestDB(t)
	seedOrderFixture(t, db)
	svc := newOrderService(db)

	// 另一个没有任何订单流入的店铺用户
	other := &model.User{Email: "other@example.com", Password: "x", Role: model.RoleShop, IsActive: true}
	mustCreate(t, db, other)

	orders, err := svc.PartnerOrders(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("PartnerOrders 失败: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("不应看到别家店铺的订单, 实际 %d", len(orders))
	}
}

func TestMyOrders(t *testing.T) {
	db := newTestDB(t)
	fx := seedOrderFixture(t, db)
	svc := newOrderService(db)

	orders, err := svc.MyOrders(context.Background(), fx.buyer.ID)
	if err != nil {
		t.Fatalf("MyOrders 失败: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("期望 1 个订单 (购物篮排除), 实际 %d", len(orders))
	}
	if orders[0].TotalSum != 2*11000000 {
		t.Errorf("总额不符: %d", orders[0].TotalSum)
	}

	// 店铺用户自己没有下过单
	orders, err = svc.MyOrders(context.Background(), fx.shopUser.ID)
	if err != nil || len(orders) != 0 {
		t.Errorf("期望空列表, 实际 len=%d err=%v", len(orders), err)
	}
}
