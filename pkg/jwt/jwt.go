package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Manager JWT管理器
// 设计说明：
// 1. 只签发一种会话Token，有效期默认7天
// 2. Token本身只证明"签发过"，是否仍有效由Redis中的会话记录决定（登出即删除）
// 3. 每次签发都带随机nonce（jti），同一用户同一秒内多次登录也得到不同Token
type Manager struct {
	secret      string        // JWT签名密钥
	tokenExpire time.Duration // Token有效期
	issuer      string
}

// NewManager 创建JWT管理器
func NewManager(secret string, tokenExpire time.Duration) *Manager {
	return &Manager{
		secret:      secret,
		tokenExpire: tokenExpire,
		issuer:      "bookshop",
	}
}

// Claims 自定义JWT Claims
// 学习要点：
// 1. 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、jti等）
// 2. 只放用户ID，不放邮箱等可变信息（资料修改后Token不需要重签）
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// Token 签发结果
type Token struct {
	Value     string
	ExpiresIn time.Duration
}

// TTL 返回Token有效期（会话存储使用相同的过期时间）
func (m *Manager) TTL() time.Duration {
	return m.tokenExpire
}

// GenerateToken 为用户签发会话Token
func (m *Manager) GenerateToken(userID uint) (*Token, error) {
	nonce, err := gonanoid.New()
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}

	return &Token{Value: signed, ExpiresIn: m.tokenExpire}, nil
}

// ParseToken 解析并验证Token
// 学习要点：
// 1. 验证签名算法（防止alg=none攻击）
// 2. 验证过期时间（exp）和生效时间（nbf）
// 3. 所有失败原因统一返回ErrUnauthorized，不向调用方泄露细节
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		// 过期、签名错误、格式错误一律视为未认证
		return nil, apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	return claims, nil
}
