package controller

import (
	"net/http"
	"strconv"

	"retail_procurement_v1/internal/api/dto"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// ShopController 店铺/类别/商品读取接口
type ShopController struct {
	shopService *service.ShopService
}

// NewShopController 创建店铺控制器
func NewShopController(shopService *service.ShopService) *ShopController {
	return &ShopController{shopService: shopService}
}

// ListShops 店铺列表
// @Summary 店铺列表，可按接单状态过滤
// @Tags Shop
// @Param status query bool false "接单状态过滤"
// @Success 200 {object} map[string]any
// @Router /shops/ [get]
func (ctrl *ShopController) ListShops(c *gin.Context) {
	var status *bool
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的 status"})
			return
		}
		status = &v
	}

	shops, err := ctrl.shopService.ListShops(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": shops})
}

// ListCategories 类别列表
// @Summary 类别列表
// @Tags Shop
// @Success 200 {object} map[string]any
// @Router /categories/ [get]
func (ctrl *ShopController) ListCategories(c *gin.Context) {
	categories, err := ctrl.shopService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": categories})
}

// ListProducts 商品列表
// @Summary 商品列表
// @Tags Shop
// @Success 200 {object} map[string]any
// @Router /products/ [get]
func (ctrl *ShopController) ListProducts(c *gin.Context) {
	products, err := ctrl.shopService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": products})
}

// ShopProducts 某店铺的报价列表
// @Summary 某店铺的全部报价
// @Tags Shop
// @Param id path int true "店铺ID"
// @Success 200 {object} map[string]any
// @Router /shop/{id}/ [get]
func (ctrl *ShopController) ShopProducts(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的店铺ID"})
		return
	}

	infos, err := ctrl.shopService.ShopProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": infos})
}

// AboutProduct 某商品在各店铺的报价
// @Summary 某商品在各店铺的报价
// @Tags Shop
// @Param id path int true "商品ID"
// @Success 200 {object} map[string]any
// @Router /about_product/{id} [get]
func (ctrl *ShopController) AboutProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	infos, err := ctrl.shopService.AboutProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": infos})
}

// UpdateStatus 切换店铺接单状态
// @Summary 切换店铺接单状态（仅店铺归属用户）
// @Tags Shop
// @Param id path int true "店铺ID"
// @Param body body dto.ShopStatusRequest true "目标状态"
// @Success 200 {object} map[string]any
// @Router /shop_status/{id} [put]
func (ctrl *ShopController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的店铺ID"})
		return
	}

	var req dto.ShopStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	callerID := middleware.CurrentUserID(c)
	shop, err := ctrl.shopService.UpdateStatus(c.Request.Context(), id, callerID, *req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": shop})
}
