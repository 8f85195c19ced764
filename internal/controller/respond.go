package controller

import (
	"errors"
	"net/http"

	"retail_procurement_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError 服务层错误到 HTTP 的统一映射
// not found 返回结构化 JSON 而不是裸 404 页；校验错误带出错字段；
// 其余一律 500，不把内部错误吞成 not found
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "记录不存在"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "无权操作"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"code": 409, "message": "记录被引用，无法变更"})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "内部错误: " + err.Error()})
	}
}
