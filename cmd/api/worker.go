package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/notify"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// mailWorkerCmd 消费mail.driver=mq时发布的邮件消息，通过SMTP投递
var mailWorkerCmd = &cobra.Command{
	Use:   "mail-worker",
	Short: "Consumes queued mail and delivers it over SMTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, syncLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer syncLog()
		log := logger.L()

		if cfg.Mail.SMTP.Host == "" || cfg.Mail.SMTP.From == "" {
			return errors.New("mail-worker 需要配置mail.smtp.host和mail.smtp.from")
		}

		metrics.InitMetrics()

		consumer, err := mq.NewConsumer(
			cfg.Mail.MQ.URL,
			cfg.Mail.MQ.Exchange,
			"topic",
			cfg.Mail.MQ.Queue,
			[]string{notify.RoutingKeyPasswordReset},
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := consumer.Close(); err != nil {
				log.Warn("关闭消费者失败", zap.Error(err))
			}
		}()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		handler := notify.NewMailHandler(notify.NewSMTPSender(cfg.Mail.SMTP))
		return consumer.Consume(ctx, handler)
	},
}

func init() {
	rootCmd.AddCommand(mailWorkerCmd)
}
