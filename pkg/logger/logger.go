// Package logger 基于zap的结构化日志
//
// 使用方式：
//
//	log, err := logger.New(logger.Options{Level: "info", Format: "json", Output: "stdout"})
//	logger.ReplaceGlobal(log)
//	logger.L().Info("服务启动", zap.Int("port", 8080))
//
// 请求级别的日志（带request_id）通过Context传递，见WithContext/FromContext。
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

type ctxKey struct{}

// New 根据配置创建zap Logger
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(defaultString(opts.Format, "console")) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("无效的日志格式: %s", opts.Format)
	}

	sink, err := openSink(defaultString(opts.Output, "stdout"))
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, sink, level)

	zapOpts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if opts.EnableCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}

	return zap.New(core, zapOpts...), nil
}

// openSink 打开日志输出目标
func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return zapcore.AddSync(f), nil
	}
}

// ReplaceGlobal 替换全局Logger（进程启动时调用一次）
func ReplaceGlobal(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// L 返回全局Logger，未初始化时为Nop Logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// WithContext 将Logger放入Context
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 从Context取出Logger，没有则返回全局Logger
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return L()
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
