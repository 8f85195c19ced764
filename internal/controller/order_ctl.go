package controller

import (
	"net/http"

	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderController 订单查询接口
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// PartnerOrders 店铺侧订单视图
// @Summary 引用了本店铺报价的全部非购物篮订单（仅 shop 角色）
// @Tags Order
// @Success 200 {object} map[string]any
// @Router /byers_orders/ [get]
func (ctrl *OrderController) PartnerOrders(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	orders, err := ctrl.orderService.PartnerOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": orders})
}

// MyOrders 买家自己的订单
// @Summary 当前用户的非购物篮订单
// @Tags Order
// @Success 200 {object} map[string]any
// @Router /my_orders/ [get]
func (ctrl *OrderController) MyOrders(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	orders, err := ctrl.orderService.MyOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": orders})
}
