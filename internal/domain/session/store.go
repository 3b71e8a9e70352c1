// Package session 会话与一次性验证码存储的领域接口
//
// Key约定（Redis实现）：
//
//	token:<token>  → 用户ID，TTL与Token有效期一致
//	otp:<user_id>  → 6位验证码，TTL 10分钟，重新申请时覆盖
package session

import (
	"context"
	"time"
)

// Store 会话存储
// 同一用户可以同时持有多个有效Token（多端登录）
type Store interface {
	// SaveToken 保存Token → 用户ID映射
	SaveToken(ctx context.Context, token string, userID uint, ttl time.Duration) error

	// TokenOwner 查询Token对应的用户ID，不存在或已过期时ok=false
	TokenOwner(ctx context.Context, token string) (userID uint, ok bool, err error)

	// DeleteToken 删除Token（登出），Token不存在不报错
	DeleteToken(ctx context.Context, token string) error

	// SaveOTP 保存验证码，覆盖旧验证码
	SaveOTP(ctx context.Context, userID uint, code string, ttl time.Duration) error

	// GetOTP 查询验证码，不存在或已过期时ok=false
	GetOTP(ctx context.Context, userID uint) (code string, ok bool, err error)

	// ConsumeOTP 验证码匹配时原子地删除并返回ok=true，不匹配或不存在时不删除
	// 同一验证码并发提交只有一次能成功
	ConsumeOTP(ctx context.Context, userID uint, code string) (ok bool, err error)
}
