package controller

import (
	"net/http"

	"retail_procurement_v1/internal/api/dto"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogController 目录导入接口
type CatalogController struct {
	catalogService *service.CatalogService
}

// NewCatalogController 创建目录导入控制器
func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// Update 目录导入
// @Summary 按 URL 拉取价目表并全量替换本店铺目录
// @Tags Catalog
// @Accept json
// @Produce json
// @Param body body dto.CatalogUpdateRequest true "feed 地址"
// @Success 200 {object} dto.CatalogUpdateResp
// @Router /update/ [post]
func (ctrl *CatalogController) Update(c *gin.Context) {
	var req dto.CatalogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)
	stats, err := ctrl.catalogService.ImportFromURL(c.Request.Context(), userID, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CatalogUpdateResp{
		Code:       0,
		Message:    "success",
		ShopID:     stats.ShopID,
		Categories: stats.Categories,
		Products:   stats.Products,
		Parameters: stats.Parameters,
	})
}
