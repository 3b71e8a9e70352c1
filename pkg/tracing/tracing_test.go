package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupRecorder 安装内存Span记录器，测试结束后恢复
func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := NewProvider(nil, sdktrace.WithSpanProcessor(recorder))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestStartSpan(t *testing.T) {
	setupRecorder(t)

	t.Run("创建根Span", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "RootOperation")
		defer span.End()

		assert.True(t, span.SpanContext().IsValid())
		assert.Len(t, ExtractTraceID(ctx), 32)
		assert.Len(t, ExtractSpanID(ctx), 16)
	})

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "RootOperation")
		defer root.End()

		childCtx, child := StartSpan(ctx, "ChildOperation")
		defer child.End()

		assert.Equal(t, ExtractTraceID(ctx), ExtractTraceID(childCtx))
		assert.NotEqual(t, ExtractSpanID(ctx), ExtractSpanID(childCtx))
	})
}

func TestEndSpan(t *testing.T) {
	recorder := setupRecorder(t)

	_, ok := StartSpan(context.Background(), "book.GetBook")
	EndSpan(ok, nil)

	_, failed := StartSpan(context.Background(), "book.CreateBook")
	EndSpan(failed, errors.New("书名已存在"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "book.GetBook", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assert.Equal(t, "book.CreateBook", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Len(t, ended[1].Events(), 1, "错误应作为事件记录")
}

func TestExtractIDs_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
