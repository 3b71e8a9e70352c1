package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator 版本化迁移（golang-migrate，SQL文件嵌入二进制）
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator 按数据库驱动选择migrations/<driver>目录
func NewMigrator(cfg config.DatabaseConfig) (*Migrator, error) {
	switch cfg.Driver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("驱动%s不支持版本化迁移，请使用auto_migrate", cfg.Driver)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("init migrator failed: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up 执行全部未应用的迁移，已是最新版本时不报错
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// Down 回滚steps个版本
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down failed: %w", err)
	}
	return nil
}

// Version 当前版本
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close 释放源和数据库连接
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
