package auth

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 支持用户名或邮箱登录
// 2. 每次登录签发新Token，旧Token仍然有效（多端登录）
type LoginUseCase struct {
	userService user.Service
	issuer      *sessionIssuer
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessions session.Store) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		issuer:      &sessionIssuer{jwtManager: jwtManager, sessions: sessions},
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Identifier string // 用户名或邮箱
	Password   string
}

// Execute 执行登录
// 账号不存在与密码错误都返回ErrInvalidCredentials
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (resp *AuthResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.Login")
	defer func() {
		tracing.EndSpan(span, err)
		recordEvent("login", err)
	}()

	u, err := uc.userService.Authenticate(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, err
	}
	return uc.issuer.issue(ctx, u)
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessions session.Store
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions session.Store) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

// Execute 删除Token对应的会话，Token不存在不报错
func (uc *LogoutUseCase) Execute(ctx context.Context, token string) (err error) {
	defer func() { recordEvent("logout", err) }()
	return uc.sessions.DeleteToken(ctx, token)
}
