package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshop/internal/domain/session"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// SessionStore 会话存储（实现session.Store）
// 设计说明：
// 1. JWT签名只证明Token由本服务签发，Redis中存在对应Key才表示会话有效
// 2. 登出即删除Key，Token立即失效（无需黑名单）
// 3. Key设计：token:{token}、otp:{user_id}，使用冒号分隔命名空间
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

var _ session.Store = (*SessionStore)(nil)

func tokenKey(token string) string {
	return "token:" + token
}

func otpKey(userID uint) string {
	return fmt.Sprintf("otp:%d", userID)
}

// SaveToken 保存Token，过期时间与JWT有效期一致
func (s *SessionStore) SaveToken(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(token), userID, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// TokenOwner 查询Token对应的用户ID
func (s *SessionStore) TokenOwner(ctx context.Context, token string) (uint, bool, error) {
	val, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(err, "查询会话失败")
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, apperrors.Wrap(err, "会话数据格式错误")
	}
	return uint(id), true, nil
}

// DeleteToken 删除Token（登出）
func (s *SessionStore) DeleteToken(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// SaveOTP 保存验证码（覆盖旧验证码）
func (s *SessionStore) SaveOTP(ctx context.Context, userID uint, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKey(userID), code, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "保存验证码失败")
	}
	return nil
}

// GetOTP 查询验证码
func (s *SessionStore) GetOTP(ctx context.Context, userID uint) (string, bool, error) {
	code, err := s.client.Get(ctx, otpKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, apperrors.Wrap(err, "查询验证码失败")
	}
	return code, true, nil
}

// consumeOTPScript 比较并删除，GET和DEL在同一脚本中执行，不会被其他请求插入
var consumeOTPScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ConsumeOTP 验证码匹配时删除
func (s *SessionStore) ConsumeOTP(ctx context.Context, userID uint, code string) (bool, error) {
	n, err := consumeOTPScript.Run(ctx, s.client, []string{otpKey(userID)}, code).Int()
	if err != nil {
		return false, apperrors.Wrap(err, "校验验证码失败")
	}
	return n == 1, nil
}
