package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	domain "github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// sendFunc 与smtp.SendMail签名一致（测试中替换）
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender 通过SMTP直接发送邮件
// 设计说明：
// 1. SMTP服务器不可用时，熔断器在连续失败后直接拒绝，避免每个请求都等待超时
// 2. 发送在调用方协程中进行，mail.driver=mq时改由mail-worker调用
type SMTPSender struct {
	cfg     config.SMTPConfig
	breaker *circuitbreaker.CircuitBreaker
	send    sendFunc
}

// NewSMTPSender 创建SMTP发送者
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	breaker := circuitbreaker.New("smtp", circuitbreaker.DefaultConfig())
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		logger.L().Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})

	return &SMTPSender{
		cfg:     cfg,
		breaker: breaker,
		send:    smtp.SendMail,
	}
}

var _ domain.Sender = (*SMTPSender)(nil)

// SendPasswordReset 发送验证码邮件
func (s *SMTPSender) SendPasswordReset(ctx context.Context, m domain.PasswordResetMail) error {
	msg, err := buildResetMessage(s.cfg.From, m)
	if err != nil {
		return fmt.Errorf("生成邮件失败: %w", err)
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	err = s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.sendWithContext(ctx, auth, m.To, msg)
	})
	metrics.IncCounterVec(metrics.MailDeliveriesTotal, map[string]string{
		"driver": "smtp",
		"result": metrics.Result(err),
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return fmt.Errorf("SMTP服务暂不可用: %w", err)
	}
	return err
}

// sendWithContext smtp.SendMail不支持context，超时或取消时提前返回
func (s *SMTPSender) sendWithContext(ctx context.Context, auth smtp.Auth, to string, msg []byte) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- s.send(s.cfg.Addr(), auth, s.cfg.From, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("发送邮件失败: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("发送邮件超时: %w", ctx.Err())
	}
}
