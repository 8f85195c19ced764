package controller

import (
	"errors"
	"net/http"
	"strconv"

	"retail_procurement_v1/internal/api/dto"
	"retail_procurement_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthController 注册/登录/激活/找回密码接口
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController 创建认证控制器
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register 注册
// @Summary 注册用户（shop 或 buyer），激活前不能登录
// @Tags Auth
// @Accept json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 200 {object} map[string]any
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "邮箱已注册"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.UserInfo{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			IsActive:  user.IsActive,
		},
	})
}

// Login 登录
// @Summary 登录，返回 JWT Token 对
// @Tags Auth
// @Accept json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "邮箱或密码错误"})
		case errors.Is(err, service.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "账号未激活"})
		default:
			respondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": resp})
}

// Activate 邮箱激活
// @Summary 激活链接落地接口
// @Tags Auth
// @Param uid path int true "用户ID"
// @Param token path string true "激活令牌"
// @Success 200 {object} map[string]any
// @Router /auth/activate/{uid}/{token} [get]
func (ctrl *AuthController) Activate(c *gin.Context) {
	uid, err := strconv.ParseInt(c.Param("uid"), 10, 64)
	if err != nil || uid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的 uid"})
		return
	}
	token := c.Param("token")

	if err := ctrl.authService.Activate(c.Request.Context(), uid, token); err != nil {
		if errors.Is(err, service.ErrBadToken) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "激活令牌无效"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "账号已激活"})
}

// ResetConfirm 找回密码确认
// @Summary 找回密码确认，设置新密码
// @Tags Auth
// @Param uid path int true "用户ID"
// @Param token path string true "重置令牌"
// @Param body body dto.ResetConfirmRequest true "新密码"
// @Success 200 {object} map[string]any
// @Router /auth/reset_password_confirm/{uid}/{token} [post]
func (ctrl *AuthController) ResetConfirm(c *gin.Context) {
	uid, err := strconv.ParseInt(c.Param("uid"), 10, 64)
	if err != nil || uid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的 uid"})
		return
	}
	token := c.Param("token")

	var req dto.ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.authService.ResetPasswordConfirm(c.Request.Context(), uid, token, req.Password); err != nil {
		if errors.Is(err, service.ErrBadToken) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "重置令牌无效"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "密码已更新"})
}
