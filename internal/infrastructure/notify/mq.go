package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// RoutingKeyPasswordReset 验证码邮件的路由键
const RoutingKeyPasswordReset = "mail.password_reset"

// Publisher 消息发布接口（*mq.Publisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQSender 将邮件发布到RabbitMQ，由mail-worker异步发送
type MQSender struct {
	publisher Publisher
}

// NewMQSender 创建MQ发送者
func NewMQSender(publisher Publisher) *MQSender {
	return &MQSender{publisher: publisher}
}

var _ domain.Sender = (*MQSender)(nil)

// SendPasswordReset 发布验证码邮件事件
func (s *MQSender) SendPasswordReset(ctx context.Context, m domain.PasswordResetMail) error {
	err := s.publisher.Publish(ctx, RoutingKeyPasswordReset, m)
	metrics.IncCounterVec(metrics.MailDeliveriesTotal, map[string]string{
		"driver": "mq",
		"result": metrics.Result(err),
	})
	return err
}

// NewMailHandler mail-worker的消息处理函数：解码事件后交给sender投递
// 无法解码的消息直接丢弃（返回nil），重试也不会成功
func NewMailHandler(sender domain.Sender) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		switch msg.RoutingKey {
		case RoutingKeyPasswordReset:
			var m domain.PasswordResetMail
			if err := json.Unmarshal(msg.Body, &m); err != nil {
				logger.FromContext(ctx).Error("邮件事件格式错误，丢弃", zap.Error(err))
				return nil
			}
			if err := sender.SendPasswordReset(ctx, m); err != nil {
				return fmt.Errorf("投递验证码邮件失败: %w", err)
			}
			return nil
		default:
			logger.FromContext(ctx).Warn("未知的路由键，丢弃", zap.String("routing_key", msg.RoutingKey))
			return nil
		}
	}
}
