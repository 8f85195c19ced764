package router

import (
	"retail_procurement_v1/internal/controller"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/model"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "retail_procurement_v1/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Catalog *controller.CatalogController
	Shop    *controller.ShopController
	Basket  *controller.BasketController
	Order   *controller.OrderController
	Auth    *controller.AuthController
}

// InitRoutes 注册所有路由
// 路径沿用对外已发布的 API 约定（含 /byers_orders/ 的历史拼写）
func InitRoutes(r *gin.Engine, ctls *Controllers, jwtm *middleware.JWTManager) {
	// Swagger 文档
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// auth 组，无需登录
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctls.Auth.Register)
		auth.POST("/login", ctls.Auth.Login)
		auth.GET("/activate/:uid/:token", ctls.Auth.Activate)
		auth.POST("/reset_password_confirm/:uid/:token", ctls.Auth.ResetConfirm)
	}

	// 公开读取
	r.GET("/shops/", ctls.Shop.ListShops)
	r.GET("/categories/", ctls.Shop.ListCategories)
	r.GET("/products/", ctls.Shop.ListProducts)
	r.GET("/shop/:id/", ctls.Shop.ShopProducts)
	r.GET("/about_product/:id", ctls.Shop.AboutProduct)

	// 目录导入，仅 shop 角色
	r.POST("/update/", jwtm.Auth(), middleware.RequireRole(model.RoleShop), ctls.Catalog.Update)

	// 接单状态切换，登录即可进，归属校验在服务层
	shopStatus := r.Group("/shop_status", jwtm.Auth())
	{
		shopStatus.PUT("/:id", ctls.Shop.UpdateStatus)
		shopStatus.PATCH("/:id", ctls.Shop.UpdateStatus)
	}

	// 购物篮，登录用户
	basket := r.Group("/basket", jwtm.Auth())
	{
		basket.GET("/", ctls.Basket.Get)
		basket.POST("/", ctls.Basket.Add)
		basket.PUT("/", ctls.Basket.Update)
		basket.DELETE("/", ctls.Basket.Remove)
	}

	// 订单视图
	r.GET("/byers_orders/", jwtm.Auth(), middleware.RequireRole(model.RoleShop), ctls.Order.PartnerOrders)
	r.GET("/my_orders/", jwtm.Auth(), ctls.Order.MyOrders)
}
