package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
	"github.com/xiebiao/bookshop/pkg/validator"
)

// serveCmd 启动HTTP服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe 启动流程：
// 1. 配置与日志
// 2. 指标、校验规则、链路追踪
// 3. Wire组装依赖（数据库、Redis、邮件、路由）
// 4. 监听SIGINT/SIGTERM，优雅关闭
func runServe(ctx context.Context) error {
	cfg, syncLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer syncLog()
	log := logger.L()

	metrics.InitMetrics()
	if err := validator.Setup(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    true,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				log.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
		log.Info("链路追踪已启用", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	srv, cleanup, err := InitializeServer(cfg)
	if err != nil {
		return fmt.Errorf("初始化服务失败: %w", err)
	}
	defer cleanup()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("服务启动成功",
			zap.String("addr", srv.Addr),
			zap.String("health", "/ping"),
			zap.String("swagger", "/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("启动服务失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("收到退出信号，开始关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	log.Info("服务已退出")
	return nil
}
