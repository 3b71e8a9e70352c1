// Package notify 用户通知（找回密码验证码邮件）
package notify

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_sender.go -package=mock github.com/xiebiao/bookshop/internal/domain/notify Sender

// PasswordResetMail 找回密码邮件内容
type PasswordResetMail struct {
	To        string        `json:"to"`
	Username  string        `json:"username"`
	Code      string        `json:"code"`
	ExpiresIn time.Duration `json:"expires_in"`
}

// Sender 通知发送者
// 实现：smtp（直接发送）、mq（发布到RabbitMQ由mail-worker发送）、log（开发环境）
type Sender interface {
	SendPasswordReset(ctx context.Context, mail PasswordResetMail) error
}
