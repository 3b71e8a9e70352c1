package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/domain/notify/mock"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

const fixedOTP = "123456"

type fixture struct {
	mr       *miniredis.Miniredis
	users    user.Repository
	svc      user.Service
	sessions session.Store
	jwt      *jwt.Manager
	sender   *mock.MockSender

	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	forgot   *ForgotPasswordUseCase
	reset    *ResetPasswordUseCase
	authn    *Authenticator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := database.NewUserRepository(dbtest.New(t))
	svc := user.NewService(users)
	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("test-secret", time.Hour)
	sender := mock.NewMockSender(gomock.NewController(t))

	forgot := NewForgotPasswordUseCase(users, sessions, sender, Config{OTPTTL: 10 * time.Minute})
	forgot.generateOTP = func() (string, error) { return fixedOTP, nil }

	return &fixture{
		mr:       mr,
		users:    users,
		svc:      svc,
		sessions: sessions,
		jwt:      jwtManager,
		sender:   sender,
		register: NewRegisterUseCase(svc, jwtManager, sessions),
		login:    NewLoginUseCase(svc, jwtManager, sessions),
		logout:   NewLogoutUseCase(sessions),
		forgot:   forgot,
		reset:    NewResetPasswordUseCase(svc, users, sessions),
		authn:    NewAuthenticator(jwtManager, sessions),
	}
}

func (f *fixture) registerAlice(t *testing.T) *AuthResponse {
	t.Helper()
	resp, err := f.register.Execute(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered := f.registerAlice(t)
	assert.Equal(t, "alice", registered.User.Username)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, int64(3600), registered.ExpiresIn)
	assert.True(t, f.mr.Exists("token:"+registered.Token))

	t.Run("重复注册返回冲突", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, user.ErrDuplicateUser)
	})

	t.Run("每次登录签发不同Token且都有效", func(t *testing.T) {
		first, err := f.login.Execute(ctx, LoginRequest{Identifier: "alice", Password: "secret123"})
		require.NoError(t, err)
		second, err := f.login.Execute(ctx, LoginRequest{Identifier: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEqual(t, first.Token, second.Token)

		for _, token := range []string{registered.Token, first.Token, second.Token} {
			id, err := f.authn.Authenticate(ctx, token)
			require.NoError(t, err)
			assert.Equal(t, registered.User.ID, id)
		}
	})

	t.Run("密码错误与账号不存在返回同一错误", func(t *testing.T) {
		_, err1 := f.login.Execute(ctx, LoginRequest{Identifier: "alice", Password: "wrong-pass"})
		_, err2 := f.login.Execute(ctx, LoginRequest{Identifier: "nobody", Password: "secret123"})
		assert.ErrorIs(t, err1, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, err2, apperrors.ErrInvalidCredentials)
	})
}

func TestLogoutAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp := f.registerAlice(t)

	t.Run("登出后Token失效", func(t *testing.T) {
		require.NoError(t, f.logout.Execute(ctx, resp.Token))
		_, err := f.authn.Authenticate(ctx, resp.Token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

		assert.NoError(t, f.logout.Execute(ctx, resp.Token), "重复登出不报错")
	})

	t.Run("签名有效但不在会话中", func(t *testing.T) {
		token, err := f.jwt.GenerateToken(resp.User.ID)
		require.NoError(t, err)
		_, err = f.authn.Authenticate(ctx, token.Value)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("会话用户与Claims不一致", func(t *testing.T) {
		token, err := f.jwt.GenerateToken(resp.User.ID)
		require.NoError(t, err)
		require.NoError(t, f.sessions.SaveToken(ctx, token.Value, resp.User.ID+1, time.Hour))
		_, err = f.authn.Authenticate(ctx, token.Value)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("其他密钥签发的Token", func(t *testing.T) {
		token, err := jwt.NewManager("other-secret", time.Hour).GenerateToken(resp.User.ID)
		require.NoError(t, err)
		require.NoError(t, f.sessions.SaveToken(ctx, token.Value, resp.User.ID, time.Hour))
		_, err = f.authn.Authenticate(ctx, token.Value)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("空Token与格式错误", func(t *testing.T) {
		_, err := f.authn.Authenticate(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		_, err = f.authn.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Redis不可用时视为未认证", func(t *testing.T) {
		login, err := f.login.Execute(ctx, LoginRequest{Identifier: "alice", Password: "secret123"})
		require.NoError(t, err)
		f.mr.SetError("server down")
		defer f.mr.SetError("")
		_, err = f.authn.Authenticate(ctx, login.Token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp := f.registerAlice(t)

	t.Run("未注册邮箱不发送邮件", func(t *testing.T) {
		require.NoError(t, f.forgot.Execute(ctx, "nobody@example.com"))
	})

	t.Run("发送失败不影响结果", func(t *testing.T) {
		f.sender.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
		require.NoError(t, f.forgot.Execute(ctx, "alice@example.com"))
	})

	t.Run("发送验证码并保存10分钟", func(t *testing.T) {
		f.sender.EXPECT().SendPasswordReset(gomock.Any(), notify.PasswordResetMail{
			To:        "alice@example.com",
			Username:  "alice",
			Code:      fixedOTP,
			ExpiresIn: 10 * time.Minute,
		}).Return(nil)

		require.NoError(t, f.forgot.Execute(ctx, "alice@example.com"))
		code, ok, err := f.sessions.GetOTP(ctx, resp.User.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, fixedOTP, code)
	})

	valid := ResetPasswordRequest{
		Email:           "alice@example.com",
		OTP:             fixedOTP,
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	}

	tests := []struct {
		name    string
		mutate  func(r *ResetPasswordRequest)
		wantErr error
	}{
		{"两次密码不一致", func(r *ResetPasswordRequest) { r.ConfirmPassword = "other" }, apperrors.ErrInvalidParams},
		{"邮箱未注册", func(r *ResetPasswordRequest) { r.Email = "nobody@example.com" }, apperrors.ErrUserNotFound},
		{"验证码错误", func(r *ResetPasswordRequest) { r.OTP = "654321" }, apperrors.ErrInvalidOTP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.ErrorIs(t, f.reset.Execute(ctx, req), tt.wantErr)
		})
	}

	t.Run("重置成功后验证码失效", func(t *testing.T) {
		require.NoError(t, f.reset.Execute(ctx, valid))

		_, err := f.login.Execute(ctx, LoginRequest{Identifier: "alice", Password: "newsecret"})
		require.NoError(t, err)
		_, err = f.login.Execute(ctx, LoginRequest{Identifier: "alice", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

		assert.ErrorIs(t, f.reset.Execute(ctx, valid), apperrors.ErrInvalidOTP)
	})

	t.Run("并发重置同一验证码只有一次成功", func(t *testing.T) {
		f.sender.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any()).Return(nil)
		require.NoError(t, f.forgot.Execute(ctx, "alice@example.com"))

		const n = 4
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
			invalid   atomic.Int32
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := f.reset.Execute(ctx, valid)
				switch {
				case err == nil:
					succeeded.Add(1)
				case errors.Is(err, apperrors.ErrInvalidOTP):
					invalid.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(n-1), invalid.Load())
		assert.False(t, f.mr.Exists(fmt.Sprintf("otp:%d", resp.User.ID)))
	})

	t.Run("Redis故障时重置失败", func(t *testing.T) {
		f.sender.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any()).Return(nil)
		require.NoError(t, f.forgot.Execute(ctx, "alice@example.com"))

		f.mr.SetError("server down")
		err := f.reset.Execute(ctx, valid)
		f.mr.SetError("")
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidOTP)

		require.NoError(t, f.reset.Execute(ctx, valid), "故障期间验证码未被消费")
	})

	t.Run("验证码过期", func(t *testing.T) {
		f.sender.EXPECT().SendPasswordReset(gomock.Any(), gomock.Any()).Return(nil)
		require.NoError(t, f.forgot.Execute(ctx, "alice@example.com"))
		f.mr.FastForward(11 * time.Minute)
		assert.ErrorIs(t, f.reset.Execute(ctx, valid), apperrors.ErrInvalidOTP)
	})
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}
