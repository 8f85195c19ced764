package service

import (
	"context"
	"testing"
	"time"

	"retail_procurement_v1/internal/api/dto"
	"retail_procurement_v1/internal/middleware"
	"retail_procurement_v1/internal/model"
	"retail_procurement_v1/internal/repository"
	"retail_procurement_v1/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testJWT = middleware.NewJWTManager(middleware.DefaultJWTConfig())

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		utils.NewFeedClient(5*time.Second),
		"", // 本地令牌校验
		testJWT,
		zap.NewNop(),
	)
}

func TestRegisterActivateLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "buyer@example.com",
		Password: "correct-horse",
		Role:     model.RoleBuyer,
	})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if user.IsActive {
		t.Error("新用户不应默认激活")
	}
	if user.ActivationToken == "" {
		t.Fatal("缺少激活令牌")
	}

	// 未激活禁止登录
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "buyer@example.com", Password: "correct-horse"}); err != ErrUserInactive {
		t.Fatalf("期望 ErrUserInactive, 实际 %v", err)
	}

	// 错误令牌
	if err := svc.Activate(ctx, user.ID, "bogus"); err != ErrBadToken {
		t.Fatalf("期望 ErrBadToken, 实际 %v", err)
	}

	if err := svc.Activate(ctx, user.ID, user.ActivationToken); err != nil {
		t.Fatalf("Activate 失败: %v", err)
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("缺少 token 对")
	}
	claims, err := testJWT.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("access token 不可解析: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleBuyer {
		t.Errorf("claims 不符: %+v", claims)
	}

	// 密码错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "buyer@example.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Errorf("期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestRegisterRejectsDuplicateEmailAndBadRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "correct-horse"}); err != ErrEmailTaken {
		t.Errorf("期望 ErrEmailTaken, 实际 %v", err)
	}
	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "b@example.com", Password: "correct-horse", Role: "admin"}); !IsValidation(err) {
		t.Errorf("期望校验错误, 实际 %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if err := svc.Activate(ctx, user.ID, user.ActivationToken); err != nil {
		t.Fatalf("Activate 失败: %v", err)
	}

	// 不存在的邮箱也返回成功，不泄露注册状态
	if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Errorf("不应暴露邮箱是否存在: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset 失败: %v", err)
	}
	var stored model.User
	db.First(&stored, user.ID)
	if stored.ResetToken == "" {
		t.Fatal("缺少重置令牌")
	}

	if err := svc.ResetPasswordConfirm(ctx, user.ID, "bogus", "new-password-1"); err != ErrBadToken {
		t.Fatalf("期望 ErrBadToken, 实际 %v", err)
	}
	if err := svc.ResetPasswordConfirm(ctx, user.ID, stored.ResetToken, "new-password-1"); err != nil {
		t.Fatalf("ResetPasswordConfirm 失败: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "new-password-1"}); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "correct-horse"}); err != ErrInvalidCredentials {
		t.Errorf("旧密码不应再可用: %v", err)
	}
}
