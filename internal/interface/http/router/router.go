// Package router 注册HTTP路由与全局中间件
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshop/docs" // 注册Swagger文档
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/ratelimit"
	"github.com/xiebiao/bookshop/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	User    *handler.UserHandler
	Book    *handler.BookHandler
	MyBook  *handler.MyBookHandler
}

// New 创建gin引擎并注册全部路由
//
// 全局中间件顺序：Recovery → Tracing（可选）→ RequestLogger → Metrics
// Tracing在RequestLogger之前，请求日志才能带上trace_id
func New(
	cfg *config.Config,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.KeyedLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.RequestLogger(), middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	requireAuth := authMiddleware.RequireAuth()
	limited := middleware.RateLimit(limiter)

	// 认证模块
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", limited, h.Auth.Login)
		authGroup.POST("/forgot-password", limited, h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", limited, h.Auth.ResetPassword)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
	}

	// 个人资料（需要登录）
	profile := v1.Group("/profile", requireAuth)
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.UpdateProfile)
		profile.PATCH("/password", h.Profile.ChangePassword)
	}

	// 图书目录（公开）
	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", h.Book.GetBook)
	}

	// 我的图书（需要登录，只能操作自己发布的图书）
	myBooks := v1.Group("/my-books", requireAuth)
	{
		myBooks.GET("", h.MyBook.ListMyBooks)
		myBooks.POST("", h.MyBook.CreateBook)
		myBooks.PATCH("/:id", h.MyBook.UpdateBook)
		myBooks.DELETE("/:id", h.MyBook.DeleteBook)
	}

	// 用户管理（需要登录）
	users := v1.Group("/users", requireAuth)
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	return r
}
