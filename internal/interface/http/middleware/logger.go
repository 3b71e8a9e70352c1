package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// HeaderRequestID 请求ID响应头
const HeaderRequestID = "X-Request-ID"

// slowRequestThreshold 超过该耗时的请求以Warn级别记录
const slowRequestThreshold = 3 * time.Second

// RequestLogger 请求日志中间件
//
// 1. 生成（或沿用上游传入的）请求ID，写入响应头
// 2. 创建带request_id/trace_id字段的Logger放入请求Context，后续日志自动关联
// 3. 请求结束后记录方法、路径、状态码、耗时、客户端IP
//
// 不记录请求体（可能包含密码、验证码）
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLogger := logger.L().With(fields...)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		logFields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			logFields = append(logFields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case latency > slowRequestThreshold:
			reqLogger.Warn("慢请求", logFields...)
		case c.Writer.Status() >= 500:
			reqLogger.Error("请求失败", logFields...)
		default:
			reqLogger.Info("请求完成", logFields...)
		}
	}
}
