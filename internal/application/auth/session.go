// Package auth 认证与会话用例：注册、登录、登出、找回密码、Token校验
package auth

import (
	"context"
	"time"

	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// Config 认证用例配置
type Config struct {
	OTPTTL time.Duration // 验证码有效期
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	User      *appuser.UserInfo `json:"user"`
	Token     string            `json:"token"`
	ExpiresIn int64             `json:"expires_in"` // Token有效期（秒）
}

// sessionIssuer 签发Token并写入会话存储
type sessionIssuer struct {
	jwtManager *jwt.Manager
	sessions   session.Store
}

func (s *sessionIssuer) issue(ctx context.Context, u *user.User) (*AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}

	// Token写入失败时整个请求失败（用户已创建，重新登录即可）
	if err := s.sessions.SaveToken(ctx, token.Value, u.ID, token.ExpiresIn); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:      appuser.NewUserInfo(u),
		Token:     token.Value,
		ExpiresIn: int64(token.ExpiresIn / time.Second),
	}, nil
}

// recordEvent 记录认证事件指标
func recordEvent(event string, err error) {
	metrics.IncCounterVec(metrics.AuthEventsTotal, map[string]string{
		"event":  event,
		"result": metrics.Result(err),
	})
}
