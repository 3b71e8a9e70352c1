package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/application/auth"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// Context中保存认证信息的key
const (
	ctxUserID = "user_id"
	ctxToken  = "token"
)

// AuthMiddleware Token认证中间件
// 设计说明：
// 1. 从Header提取Bearer Token
// 2. 校验签名、过期时间、Redis会话（auth.Authenticator）
// 3. 将用户ID和Token注入gin.Context
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/profile", handler.GetProfile)
//
// 缺少Header、格式错误、Token无效、已登出统一返回401
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		userID, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// bearerToken 解析 "Authorization: Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetToken 从Context获取当前请求的Token（登出使用）
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
