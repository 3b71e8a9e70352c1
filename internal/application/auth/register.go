package auth

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. 唯一性检查和密码哈希由领域服务完成
// 2. 注册成功后直接签发Token（免去一次登录）
type RegisterUseCase struct {
	userService user.Service
	issuer      *sessionIssuer
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, jwtManager *jwt.Manager, sessions session.Store) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		issuer:      &sessionIssuer{jwtManager: jwtManager, sessions: sessions},
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (resp *AuthResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.Register")
	defer func() {
		tracing.EndSpan(span, err)
		recordEvent("register", err)
	}()

	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return uc.issuer.issue(ctx, u)
}
