package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/session"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// Authenticator 校验请求携带的Token
// 三个条件同时满足才算已认证：
// 1. JWT签名正确且未过期
// 2. Redis中存在该Token的会话记录（未登出）
// 3. 会话记录中的用户ID与Claims一致
type Authenticator struct {
	jwtManager *jwt.Manager
	sessions   session.Store
}

// NewAuthenticator 创建Token校验器
func NewAuthenticator(jwtManager *jwt.Manager, sessions session.Store) *Authenticator {
	return &Authenticator{jwtManager: jwtManager, sessions: sessions}
}

// Authenticate 返回Token对应的用户ID
// 任何失败都返回ErrUnauthorized
func (a *Authenticator) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, apperrors.ErrUnauthorized
	}

	claims, err := a.jwtManager.ParseToken(token)
	if err != nil {
		return 0, apperrors.ErrUnauthorized
	}

	owner, ok, err := a.sessions.TokenOwner(ctx, token)
	if err != nil {
		logger.FromContext(ctx).Error("查询会话失败", zap.Error(err))
		return 0, apperrors.ErrUnauthorized
	}
	if !ok || owner != claims.UserID {
		return 0, apperrors.ErrUnauthorized
	}
	return claims.UserID, nil
}
