package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/application/auth"
	appbook "github.com/xiebiao/bookshop/internal/application/book"
	domainnotify "github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/notify"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/ratelimit"
)

// 自定义Provider
// 构造函数的参数需要从Config中提取，或者需要返回cleanup函数时，Wire无法直接使用，
// 在这里包一层

// provideDB 创建数据库连接，cleanup时关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis 创建Redis客户端
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpire)
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{OTPTTL: cfg.Session.OTPTTL}
}

func provideBookConfig(cfg *config.Config) appbook.Config {
	return appbook.Config{CacheTTL: cfg.Session.BookCacheTTL}
}

// provideRateLimiter 认证接口限流器，cleanup时停止后台清理协程
func provideRateLimiter(cfg *config.Config) (*ratelimit.KeyedLimiter, func()) {
	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	return limiter, limiter.Stop
}

// provideSender 按mail.driver选择验证码邮件的投递方式
//   - log:  只写日志（开发环境）
//   - smtp: 请求内直接发送
//   - mq:   发布到RabbitMQ，由mail-worker发送
func provideSender(cfg *config.Config) (domainnotify.Sender, func(), error) {
	switch cfg.Mail.Driver {
	case "log":
		return notify.NewLogSender(), func() {}, nil
	case "smtp":
		return notify.NewSMTPSender(cfg.Mail.SMTP), func() {}, nil
	case "mq":
		publisher, err := mq.NewPublisher(cfg.Mail.MQ.URL, cfg.Mail.MQ.Exchange, "topic")
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := publisher.Close(); err != nil {
				logger.L().Warn("关闭消息发布者失败", zap.Error(err))
			}
		}
		return notify.NewMQSender(publisher), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("不支持的邮件驱动: %s", cfg.Mail.Driver)
	}
}

// provideHTTPServer 带超时配置的http.Server
func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
