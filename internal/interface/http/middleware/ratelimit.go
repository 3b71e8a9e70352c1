package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/ratelimit"
	"github.com/xiebiao/bookshop/pkg/response"
)

// RateLimit 按客户端IP限流（用于登录、找回密码等易被暴力尝试的接口）
func RateLimit(limiter *ratelimit.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			logger.FromContext(c.Request.Context()).Warn("请求被限流",
				zap.String("client_ip", ip),
				zap.String("path", c.FullPath()),
			)
			response.Abort(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
