// Package tracing 基于OpenTelemetry的链路追踪
//
// # 核心概念
//
//  1. Trace：一个完整的请求链路（如一次"创建图书"请求）
//  2. Span：链路中的一个操作单元（HTTP处理、事务、解析作者分类）
//  3. SpanContext：TraceID + SpanID，随context.Context向下传递
//
// # 追踪示例
//
//	Trace: POST /api/v1/my-books（TraceID=4bf92f35...）
//	├─ Span: HTTP POST /api/v1/my-books       （middleware.Tracing）
//	│  └─ Span: book.CreateBook               （application层）
//	│     ├─ Span: reference.ResolveOrCreate  （author）
//	│     └─ Span: reference.ResolveOrCreate  （category）
//
// # 使用方式
//
//	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
//	    ServiceName: "bookshop-api",
//	    Endpoint:    "localhost:4317",
//	})
//	defer shutdown(context.Background())
//
// 未启用追踪时不调用InitTracer：otel全局Provider默认是noop实现，
// StartSpan照常可用，开销可以忽略。
//
// 注意：Span属性只放ID类信息，不要放密码、验证码、Token。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName 应用内统一使用的Tracer名称
const TracerName = "github.com/xiebiao/bookshop"

// Config 追踪配置
type Config struct {
	ServiceName string
	// Endpoint OTLP gRPC端点（host:port，如 localhost:4317）
	Endpoint string
	// SampleRatio 采样率，<=0或>=1表示全量采样
	SampleRatio float64
	// Insecure 禁用TLS（本地Jaeger/Collector）
	Insecure bool
}

// InitTracer 初始化全局TracerProvider，返回shutdown函数（进程退出前调用以刷新Span）
//
// 步骤：
// 1. 创建OTLP gRPC Exporter
// 2. 创建Resource（service.name）
// 3. 创建TracerProvider（批量发送 + 采样）
// 4. 设置全局Provider与W3C传播器
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	tp := NewProvider(res, sdktrace.WithBatcher(exporter), sampler(cfg.SampleRatio))
	Install(tp)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// NewProvider 创建TracerProvider（测试中可传入内存Exporter）
func NewProvider(res *resource.Resource, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	if res != nil {
		opts = append(opts, sdktrace.WithResource(res))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// Install 设置全局TracerProvider和上下文传播器
func Install(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func sampler(ratio float64) sdktrace.TracerProviderOption {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.WithSampler(sdktrace.AlwaysSample())
	}
	return sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)))
}

// StartSpan 从全局Provider创建Span
// 必须使用返回的ctx调用下游，否则子Span无法挂到当前Span下
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, spanName, opts...)
}

// EndSpan 记录错误（如有）并结束Span
//
//	ctx, span := tracing.StartSpan(ctx, "book.CreateBook")
//	defer func() { tracing.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于关联日志），无有效Span时返回空串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
