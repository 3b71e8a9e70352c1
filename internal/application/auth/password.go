package auth

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// 响应提示
const (
	ForgotPasswordMessage = "如果该邮箱已注册，验证码已发送"
	ResetPasswordMessage  = "密码重置成功"
	LogoutMessage         = "已退出登录"
)

const (
	otpAlphabet = "0123456789"
	otpLength   = 6
)

// OTPGenerator 验证码生成函数
type OTPGenerator func() (string, error)

// GenerateOTP 生成6位数字验证码（crypto/rand）
func GenerateOTP() (string, error) {
	return gonanoid.Generate(otpAlphabet, otpLength)
}

// ForgotPasswordUseCase 找回密码：生成验证码并发送邮件
// 设计说明：
// 1. 无论邮箱是否注册都返回相同提示，不泄露账号是否存在
// 2. 验证码保存10分钟，重复申请覆盖旧验证码
// 3. 邮件发送失败只记录日志，用户可以重新申请
type ForgotPasswordUseCase struct {
	userRepo    user.Repository
	sessions    session.Store
	sender      notify.Sender
	otpTTL      time.Duration
	generateOTP OTPGenerator
}

// NewForgotPasswordUseCase 创建用例
func NewForgotPasswordUseCase(userRepo user.Repository, sessions session.Store, sender notify.Sender, cfg Config) *ForgotPasswordUseCase {
	return &ForgotPasswordUseCase{
		userRepo:    userRepo,
		sessions:    sessions,
		sender:      sender,
		otpTTL:      cfg.OTPTTL,
		generateOTP: GenerateOTP,
	}
}

// Execute 执行找回密码
func (uc *ForgotPasswordUseCase) Execute(ctx context.Context, email string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.ForgotPassword")
	defer func() {
		tracing.EndSpan(span, err)
		recordEvent("forgot_password", err)
	}()

	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			logger.FromContext(ctx).Debug("找回密码：邮箱未注册")
			return nil
		}
		return err
	}

	code, err := uc.generateOTP()
	if err != nil {
		return apperrors.Wrap(err, "生成验证码失败")
	}
	if err := uc.sessions.SaveOTP(ctx, u.ID, code, uc.otpTTL); err != nil {
		return err
	}

	mail := notify.PasswordResetMail{
		To:        u.Email,
		Username:  u.Username,
		Code:      code,
		ExpiresIn: uc.otpTTL,
	}
	if err := uc.sender.SendPasswordReset(ctx, mail); err != nil {
		logger.FromContext(ctx).Warn("验证码邮件发送失败",
			zap.Uint("user_id", u.ID),
			zap.Error(err),
		)
	}
	return nil
}

// ResetPasswordUseCase 使用验证码重置密码
type ResetPasswordUseCase struct {
	userService user.Service
	userRepo    user.Repository
	sessions    session.Store
}

// NewResetPasswordUseCase 创建用例
func NewResetPasswordUseCase(userService user.Service, userRepo user.Repository, sessions session.Store) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		userService: userService,
		userRepo:    userRepo,
		sessions:    sessions,
	}
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email           string
	OTP             string
	NewPassword     string
	ConfirmPassword string
}

// Execute 执行重置
// 业务规则：
// 1. 两次密码不一致返回ErrPasswordMismatch
// 2. 邮箱未注册返回ErrUserNotFound
// 3. 验证码不存在或不匹配返回ErrInvalidOTP
// 4. 先原子地消费验证码再写入新密码，同一验证码只能成功使用一次
//    写入失败时验证码已失效，需要重新申请
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, req ResetPasswordRequest) (err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.ResetPassword")
	defer func() {
		tracing.EndSpan(span, err)
		recordEvent("reset_password", err)
	}()

	if req.NewPassword != req.ConfirmPassword {
		return user.ErrPasswordMismatch
	}
	if req.OTP == "" {
		return apperrors.ErrInvalidOTP
	}

	u, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	consumed, err := uc.sessions.ConsumeOTP(ctx, u.ID, req.OTP)
	if err != nil {
		return err
	}
	if !consumed {
		return apperrors.ErrInvalidOTP
	}

	hash, err := uc.userService.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.ChangePasswordHash(hash)
	return uc.userRepo.Update(ctx, u)
}
