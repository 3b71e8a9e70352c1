package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/application/auth"
	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/application/profile"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/notify"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/internal/interface/http/router"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/ratelimit"
	"github.com/xiebiao/bookshop/pkg/validator"
)

type server struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
}

// newServer 使用SQLite内存库 + miniredis组装完整的路由
func newServer(t *testing.T, limiter *ratelimit.KeyedLimiter) *server {
	t.Helper()
	require.NoError(t, validator.Setup())

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		JWT:     config.JWTConfig{Secret: "router-test-secret", TokenExpire: time.Hour},
		Session: config.SessionConfig{OTPTTL: 10 * time.Minute, BookCacheTTL: time.Minute},
	}

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db := dbtest.New(t)
	userRepo := database.NewUserRepository(db)
	bookRepo := database.NewBookRepository(db)
	refRepo := database.NewReferenceRepository(db)
	tx := database.NewTxManager(db)
	sessions := redis.NewSessionStore(client)
	cache := redis.NewBookCache(client)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpire)

	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo, refRepo)
	authCfg := auth.Config{OTPTTL: cfg.Session.OTPTTL}
	bookCfg := appbook.Config{CacheTTL: cfg.Session.BookCacheTTL}

	h := router.Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUseCase(userService, jwtManager, sessions),
			auth.NewLoginUseCase(userService, jwtManager, sessions),
			auth.NewLogoutUseCase(sessions),
			auth.NewForgotPasswordUseCase(userRepo, sessions, notify.NewLogSender(), authCfg),
			auth.NewResetPasswordUseCase(userService, userRepo, sessions),
		),
		Profile: handler.NewProfileHandler(
			profile.NewGetProfileUseCase(userRepo),
			profile.NewUpdateProfileUseCase(userService, userRepo),
			profile.NewChangePasswordUseCase(userService, userRepo),
		),
		User: handler.NewUserHandler(
			appuser.NewCreateUserUseCase(userService),
			appuser.NewGetUserUseCase(userRepo),
			appuser.NewListUsersUseCase(userRepo),
			appuser.NewUpdateUserUseCase(userService, userRepo),
			appuser.NewDeleteUserUseCase(userRepo),
		),
		Book: handler.NewBookHandler(
			appbook.NewListPublicBooksUseCase(bookService),
			appbook.NewGetBookUseCase(bookService, cache, bookCfg),
		),
		MyBook: handler.NewMyBookHandler(
			appbook.NewListOwnedBooksUseCase(bookService),
			appbook.NewCreateBookUseCase(userRepo, bookService, tx),
			appbook.NewUpdateBookUseCase(bookService, tx, cache),
			appbook.NewDeleteBookUseCase(bookService, tx, cache),
		),
	}

	if limiter == nil {
		limiter = ratelimit.New(1000, 1000)
	}
	t.Cleanup(limiter.Stop)

	authMiddleware := middleware.NewAuthMiddleware(auth.NewAuthenticator(jwtManager, sessions))
	return &server{engine: router.New(cfg, h, authMiddleware, limiter), mr: mr}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type authData struct {
	User struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

func (s *server) register(t *testing.T, username string) authData {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	return decode[authData](t, env.Data)
}

func TestPing(t *testing.T) {
	s := newServer(t, nil)

	status, env := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t, nil)
	alice := s.register(t, "alice")
	assert.NotEmpty(t, alice.Token)
	assert.Equal(t, int64(3600), alice.ExpiresIn)

	t.Run("重复注册返回409", func(t *testing.T) {
		status, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "alice",
			"email":    "other@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.False(t, env.Success)
	})

	t.Run("参数错误返回400", func(t *testing.T) {
		status, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "al",
			"email":    "not-an-email",
			"password": "123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, env.Error, "username")
		assert.Contains(t, env.Error, "email")
		assert.Contains(t, env.Error, "password")
	})

	t.Run("用户名或邮箱都能登录", func(t *testing.T) {
		for _, id := range []string{"alice", "alice@example.com"} {
			status, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
				"identifier": id,
				"password":   "secret123",
			})
			assert.Equal(t, http.StatusOK, status, env.Error)
			assert.NotEmpty(t, decode[authData](t, env.Data).Token)
		}
	})

	t.Run("密码错误返回401", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"identifier": "alice",
			"password":   "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("未携带Token访问受保护接口返回401", func(t *testing.T) {
		status, _ := s.do(t, http.MethodGet, "/api/v1/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		bob := s.register(t, "bob")

		status, _ := s.do(t, http.MethodGet, "/api/v1/profile", bob.Token, nil)
		require.Equal(t, http.StatusOK, status)

		status, env := s.do(t, http.MethodPost, "/api/v1/auth/logout", bob.Token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, auth.LogoutMessage, env.Message)

		status, _ = s.do(t, http.MethodGet, "/api/v1/profile", bob.Token, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestPasswordReset(t *testing.T) {
	s := newServer(t, nil)
	alice := s.register(t, "alice")

	t.Run("未注册邮箱返回相同提示", func(t *testing.T) {
		status, env := s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
			"email": "nobody@example.com",
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, auth.ForgotPasswordMessage, env.Message)
	})

	status, env := s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, auth.ForgotPasswordMessage, env.Message)

	otp, err := s.mr.Get(fmt.Sprintf("otp:%d", alice.User.ID))
	require.NoError(t, err)
	require.Len(t, otp, 6)

	t.Run("两次密码不一致返回400", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
			"email":            "alice@example.com",
			"otp":              otp,
			"new_password":     "newsecret",
			"confirm_password": "different",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"email":            "alice@example.com",
		"otp":              otp,
		"new_password":     "newsecret",
		"confirm_password": "newsecret",
	})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, auth.ResetPasswordMessage, env.Message)
	assert.False(t, s.mr.Exists(fmt.Sprintf("otp:%d", alice.User.ID)), "验证码只能使用一次")

	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": "alice",
		"password":   "newsecret",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestProfile(t *testing.T) {
	s := newServer(t, nil)
	alice := s.register(t, "alice")
	s.register(t, "bob")

	t.Run("修改用户名", func(t *testing.T) {
		status, env := s.do(t, http.MethodPut, "/api/v1/profile", alice.Token, map[string]string{
			"username": "alice2",
		})
		require.Equal(t, http.StatusOK, status, env.Error)
		info := decode[struct {
			Username string `json:"username"`
		}](t, env.Data)
		assert.Equal(t, "alice2", info.Username)
	})

	t.Run("用户名被占用返回409", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPut, "/api/v1/profile", alice.Token, map[string]string{
			"username": "bob",
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("当前密码错误返回400", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPatch, "/api/v1/profile/password", alice.Token, map[string]string{
			"current_password": "wrong-password",
			"new_password":     "newsecret",
			"confirm_password": "newsecret",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("修改密码", func(t *testing.T) {
		status, env := s.do(t, http.MethodPatch, "/api/v1/profile/password", alice.Token, map[string]string{
			"current_password": "secret123",
			"new_password":     "newsecret",
			"confirm_password": "newsecret",
		})
		require.Equal(t, http.StatusOK, status, env.Error)
		assert.Equal(t, profile.ChangePasswordMessage, env.Message)
	})
}

type bookData struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Author   string   `json:"author"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type pageData struct {
	List       []bookData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

func TestBooks(t *testing.T) {
	s := newServer(t, nil)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	status, env := s.do(t, http.MethodPost, "/api/v1/my-books", alice.Token, map[string]interface{}{
		"title":       "三体",
		"description": "科幻小说",
		"price":       45.5,
		"author":      "刘慈欣",
		"category":    "科幻",
		"tags":        []string{"经典", "科幻", "经典"},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	created := decode[bookData](t, env.Data)
	assert.Equal(t, "45.50", created.Price)
	assert.Equal(t, []string{"经典", "科幻"}, created.Tags)

	bookPath := fmt.Sprintf("/api/v1/books/%d", created.ID)
	myBookPath := fmt.Sprintf("/api/v1/my-books/%d", created.ID)

	t.Run("公开查询详情", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, bookPath, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "三体", decode[bookData](t, env.Data).Title)
	})

	t.Run("不存在的图书返回404", func(t *testing.T) {
		status, _ := s.do(t, http.MethodGet, "/api/v1/books/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("书名重复返回409", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPost, "/api/v1/my-books", bob.Token, map[string]interface{}{
			"title":       "三体",
			"description": "另一本",
			"price":       10,
			"author":      "某人",
			"category":    "科幻",
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("价格区间无效返回400", func(t *testing.T) {
		status, _ := s.do(t, http.MethodGet, "/api/v1/books?min_price=50&max_price=10", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("他人修改返回404", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPatch, myBookPath, bob.Token, map[string]interface{}{"price": 1})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("发布者修改后详情同步更新", func(t *testing.T) {
		// 先读一次写入缓存
		status, _ := s.do(t, http.MethodGet, bookPath, "", nil)
		require.Equal(t, http.StatusOK, status)

		status, env := s.do(t, http.MethodPatch, myBookPath, alice.Token, map[string]interface{}{"price": 50})
		require.Equal(t, http.StatusOK, status, env.Error)

		status, env = s.do(t, http.MethodGet, bookPath, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "50.00", decode[bookData](t, env.Data).Price)
	})

	t.Run("我的图书只包含自己发布的", func(t *testing.T) {
		status, env := s.do(t, http.MethodGet, "/api/v1/my-books", bob.Token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(0), decode[pageData](t, env.Data).Total)

		status, env = s.do(t, http.MethodGet, "/api/v1/my-books", alice.Token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(1), decode[pageData](t, env.Data).Total)
	})

	t.Run("删除后公开列表为空", func(t *testing.T) {
		status, _ := s.do(t, http.MethodDelete, myBookPath, alice.Token, nil)
		require.Equal(t, http.StatusOK, status)

		status, env := s.do(t, http.MethodGet, "/api/v1/books", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, decode[pageData](t, env.Data).List)

		status, _ = s.do(t, http.MethodGet, bookPath, "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestUsers(t *testing.T) {
	s := newServer(t, nil)
	admin := s.register(t, "admin")

	status, env := s.do(t, http.MethodPost, "/api/v1/users", admin.Token, map[string]string{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	carol := decode[struct {
		ID uint `json:"id"`
	}](t, env.Data)
	path := fmt.Sprintf("/api/v1/users/%d", carol.ID)

	status, env = s.do(t, http.MethodGet, "/api/v1/users?page=1&limit=1", admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}](t, env.Data)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	status, env = s.do(t, http.MethodPut, path, admin.Token, map[string]string{"email": "carol2@example.com"})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = s.do(t, http.MethodGet, path, admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "carol2@example.com")

	status, env = s.do(t, http.MethodDelete, path, admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, handler.DeleteUserMessage, env.Message)

	status, _ = s.do(t, http.MethodGet, path, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLoginRateLimit(t *testing.T) {
	s := newServer(t, ratelimit.New(0.001, 2))

	login := func() int {
		status, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"identifier": "nobody",
			"password":   "secret123",
		})
		return status
	}

	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}
