package notify

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// LogSender 只写日志不发送邮件（mail.driver=log，仅用于本地开发）
type LogSender struct{}

// NewLogSender 创建日志发送者
func NewLogSender() *LogSender {
	return &LogSender{}
}

var _ domain.Sender = (*LogSender)(nil)

// SendPasswordReset 将验证码写入日志
func (LogSender) SendPasswordReset(ctx context.Context, m domain.PasswordResetMail) error {
	logger.FromContext(ctx).Info("验证码邮件（log驱动，未实际发送）",
		zap.String("to", m.To),
		zap.String("code", m.Code),
		zap.Duration("expires_in", m.ExpiresIn),
	)
	metrics.IncCounterVec(metrics.MailDeliveriesTotal, map[string]string{"driver": "log", "result": "success"})
	return nil
}
