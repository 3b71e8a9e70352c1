//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router ← http.Server

package main

import (
	"net/http"

	"github.com/google/wire"

	"github.com/xiebiao/bookshop/internal/application/auth"
	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/application/profile"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、邮件投递
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideSender,
	provideJWTManager,
	provideRateLimiter,
)

// repositorySet 仓储、缓存、会话存储、事务管理器
var repositorySet = wire.NewSet(
	database.NewUserRepository,
	database.NewBookRepository,
	database.NewReferenceRepository,
	database.NewTxManager,
	wire.Bind(new(appbook.Transactor), new(*database.TxManager)),
	redis.NewSessionStore,
	wire.Bind(new(session.Store), new(*redis.SessionStore)),
	redis.NewBookCache,
	wire.Bind(new(book.Cache), new(*redis.BookCache)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideAuthConfig,
	provideBookConfig,

	auth.NewRegisterUseCase,
	auth.NewLoginUseCase,
	auth.NewLogoutUseCase,
	auth.NewForgotPasswordUseCase,
	auth.NewResetPasswordUseCase,
	auth.NewAuthenticator,

	profile.NewGetProfileUseCase,
	profile.NewUpdateProfileUseCase,
	profile.NewChangePasswordUseCase,

	appuser.NewCreateUserUseCase,
	appuser.NewGetUserUseCase,
	appuser.NewListUsersUseCase,
	appuser.NewUpdateUserUseCase,
	appuser.NewDeleteUserUseCase,

	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListPublicBooksUseCase,
	appbook.NewListOwnedBooksUseCase,
)

// handlerSet 中间件、处理器、路由
var handlerSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewProfileHandler,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewMyBookHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
	provideHTTPServer,
)

// InitializeServer 组装HTTP服务，返回的cleanup按创建的逆序释放资源
func InitializeServer(cfg *config.Config) (*http.Server, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
