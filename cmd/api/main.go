// Bookshop API
//
//	@title						Bookshop API
//	@version					1.0
//	@description				图书商城后端：账号认证、个人资料、图书目录与发布管理
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				格式: Bearer {token}
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// configDir 配置文件目录（为空时搜索./config和.）
var configDir string

// rootCmd 不带子命令时等同于serve
var rootCmd = &cobra.Command{
	Use:   "bookshop",
	Short: "Bookshop backend",
	Long: `Bookshop backend. Usage:

	bookshop serve              启动HTTP服务
	bookshop migrate up         执行数据库迁移
	bookshop mail-worker        消费邮件队列并通过SMTP投递
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "配置文件目录")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并初始化全局Logger，返回的函数在退出前刷新日志
func loadConfig() (*config.Config, func(), error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	logger.ReplaceGlobal(log)

	log.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", cfg.Database.Driver),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("mail_driver", cfg.Mail.Driver),
	)

	return cfg, func() { _ = log.Sync() }, nil
}
