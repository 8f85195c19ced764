package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retail_procurement_v1/internal/api/dto"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 认证相关错误
var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserInactive       = errors.New("账号未激活")
	ErrEmailTaken         = errors.New("邮箱已注册")
	ErrBadToken           = errors.New("令牌无效")
)

// ==================== AuthService 认证服务 ====================

// AuthService 注册/登录/激活/找回密码
// providerURL 非空时，激活与找回确认转发给外部身份服务（本服务只做信使）；
// 为空时走本地令牌校验
type AuthService struct {
	users       repository.UserRepository
	client      *resty.Client
	providerURL string
	jwt         *middleware.JWTManager
	log         *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(users repository.UserRepository, client *resty.Client, providerURL string, jwt *middleware.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{
		users:       users,
		client:      client,
		providerURL: providerURL,
		jwt:         jwt,
		log:         log,
	}
}

// Register 注册用户
// 新用户默认未激活，激活令牌（uuid）通过邮件渠道下发，邮件发送不在本服务内
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleBuyer
	}
	if role != model.RoleShop && role != model.RoleBuyer {
		return nil, NewValidationError("role", "只能是 shop 或 buyer")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &model.User{
		Email:           req.Email,
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        string(hash),
		Role:            role,
		IsActive:        false,
		ActivationToken: uuid.New().String(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// 邮件渠道不在本服务内，令牌先落到日志方便联调
	s.log.Debug("注册成功，激活令牌已生成",
		zap.Int64("user_id", user.ID),
		zap.String("activation_token", user.ActivationToken))
	return user, nil
}

// Login 登录，返回 JWT Token 对
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwt.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwt.AccessTokenTTL()),
		User: dto.UserInfo{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			IsActive:  user.IsActive,
		},
	}, nil
}

// Activate 邮箱激活
// 配了外部身份服务就转发 uid/token 并透传结果；否则本地校验激活令牌
func (s *AuthService) Activate(ctx context.Context, uid int64, token string) error {
	if s.providerURL != "" {
		return s.forward(ctx, "/auth/users/activation/", uid, token)
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadToken
		}
		return err
	}
	if user.ActivationToken == "" || user.ActivationToken != token {
		return ErrBadToken
	}
	return s.users.UpdateFields(ctx, uid, map[string]interface{}{
		"is_active":        true,
		"activation_token": "",
	})
}

// RequestPasswordReset 生成找回密码令牌
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// 不泄露邮箱是否存在
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	token := uuid.New().String()
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"reset_token": token}); err != nil {
		return err
	}
	s.log.Debug("找回密码令牌已生成",
		zap.Int64("user_id", user.ID),
		zap.String("reset_token", token))
	return nil
}

// ResetPasswordConfirm 找回密码确认
func (s *AuthService) ResetPasswordConfirm(ctx context.Context, uid int64, token, newPassword string) error {
	if s.providerURL != "" {
		return s.forward(ctx, "/auth/users/reset_password_confirm/", uid, token)
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadToken
		}
		return err
	}
	if user.ResetToken == "" || user.ResetToken != token {
		return ErrBadToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}
	return s.users.UpdateFields(ctx, uid, map[string]interface{}{
		"password":    string(hash),
		"reset_token": "",
	})
}

// forward 把 uid/token 转发给外部身份服务
func (s *AuthService) forward(ctx context.Context, path string, uid int64, token string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"uid":   fmt.Sprintf("%d", uid),
			"token": token,
		}).
		Post(s.providerURL + path)
	if err != nil {
		return fmt.Errorf("身份服务请求失败: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("身份服务返回 %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
