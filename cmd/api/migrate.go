package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/pkg/logger"
)

var downSteps int

// migrateCmd 数据库迁移
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, syncLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer syncLog()

		// sqlite只用于本地开发，直接按模型建表
		if cfg.Database.Driver == "sqlite" {
			return autoMigrate(cfg.Database)
		}

		return withMigrator(cfg.Database, func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return logVersion(m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, syncLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer syncLog()

		return withMigrator(cfg.Database, func(m *database.Migrator) error {
			if err := m.Down(downSteps); err != nil {
				return err
			}
			return logVersion(m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, syncLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer syncLog()

		return withMigrator(cfg.Database, logVersion)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "回滚的版本数")
}

func withMigrator(cfg config.DatabaseConfig, fn func(m *database.Migrator) error) error {
	m, err := database.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.L().Warn("关闭迁移连接失败", zap.Error(err))
		}
	}()
	return fn(m)
}

func logVersion(m *database.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("读取迁移版本失败: %w", err)
	}
	logger.L().Info("当前迁移版本", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func autoMigrate(cfg config.DatabaseConfig) error {
	db, err := database.Open(cfg, gormlogger.Warn)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	logger.L().Info("数据库表结构已同步", zap.String("driver", cfg.Driver))
	return nil
}
