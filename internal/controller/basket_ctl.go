package controller

import (
	"net/http"

	"retail_procurement_v1/internal/api/dto"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// BasketController 购物篮接口
// GET 读取 / POST 加购 / PUT 改数量 / DELETE 删除，全部作用在当前用户的购物篮上
type BasketController struct {
	basketService *service.BasketService
}

// NewBasketController 创建购物篮控制器
func NewBasketController(basketService *service.BasketService) *BasketController {
	return &BasketController{basketService: basketService}
}

// Get 读取购物篮
// @Summary 读取当前用户购物篮（含 total_sum 汇总）
// @Tags Basket
// @Success 200 {object} map[string]any
// @Router /basket/ [get]
func (ctrl *BasketController) Get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	basket, err := ctrl.basketService.GetBasket(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": basket})
}

// Add 批量加购
// @Summary 批量加购，整批原子：任一条失败全部回滚
// @Tags Basket
// @Accept json
// @Param body body dto.BasketAddRequest true "加购条目"
// @Success 200 {object} dto.MutationResp
// @Router /basket/ [post]
func (ctrl *BasketController) Add(c *gin.Context) {
	var req dto.BasketAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 请求体本身坏掉是硬错误，和单条条目校验失败是两类问题
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	items := make([]service.BasketItemAdd, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.BasketItemAdd{
			ProductInfoID: it.ProductInfoID,
			Quantity:      it.Quantity,
		})
	}

	userID := middleware.CurrentUserID(c)
	created, err := ctrl.basketService.AddItems(c.Request.Context(), userID, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResp{Code: 0, Message: "success", Count: int64(created)})
}

// Update 批量改数量
// @Summary 批量改数量，非整数条目静默跳过
// @Tags Basket
// @Accept json
// @Param body body dto.BasketUpdateRequest true "改数量条目"
// @Success 200 {object} dto.MutationResp
// @Router /basket/ [put]
func (ctrl *BasketController) Update(c *gin.Context) {
	var req dto.BasketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	items := make([]service.BasketItemUpdate, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.BasketItemUpdate{ID: it.ID, Quantity: it.Quantity})
	}

	userID := middleware.CurrentUserID(c)
	updated, err := ctrl.basketService.UpdateQuantities(c.Request.Context(), userID, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResp{Code: 0, Message: "success", Count: updated})
}

// Remove 批量删除
// @Summary 按逗号分隔的 id 串删除购物篮条目
// @Tags Basket
// @Accept json
// @Param body body dto.BasketRemoveRequest true "id 串"
// @Success 200 {object} dto.MutationResp
// @Router /basket/ [delete]
func (ctrl *BasketController) Remove(c *gin.Context) {
	var req dto.BasketRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)
	deleted, err := ctrl.basketService.RemoveItems(c.Request.Context(), userID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResp{Code: 0, Message: "success", Count: deleted})
}
