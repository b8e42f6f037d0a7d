package logger

import (
	"context"
	"io"
	"testing"

	"github.com/philipp01105/logproxy/sink"
)

func discardDispatcher(level Level) *Dispatcher {
	return NewBuilder().
		WithSink(sink.NewConsole(sink.ConsoleConfig{Writer: io.Discard}).Log).
		WithAcceptLevel(level).
		WithAsync(false).
		Build()
}

var staticMessage = func() string { return "test message" }

// BenchmarkSuppressed measures a message rejected by the global level.
// Target: a few ns/op, 0 allocs/op
func BenchmarkSuppressed(b *testing.B) {
	d := discardDispatcher(ErrorLevel)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Info("bench", staticMessage)
	}
}

// BenchmarkSuppressedWithModuleOverride needs the caller to find the module.
func BenchmarkSuppressedWithModuleOverride(b *testing.B) {
	d := discardDispatcher(ErrorLevel)
	d.SetModuleOverride("logger", ErrorLevel)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Info("bench", staticMessage)
	}
}

// BenchmarkSuppressedf measures the deferred formatting closure.
func BenchmarkSuppressedf(b *testing.B) {
	d := discardDispatcher(ErrorLevel)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Infof("bench", "value %d", i)
	}
}

// BenchmarkForwardedConsole measures a forwarded message formatted into
// io.Discard.
func BenchmarkForwardedConsole(b *testing.B) {
	d := discardDispatcher(InfoLevel)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Info("bench", staticMessage)
	}
}

// BenchmarkForwardedExplicitCaller skips the runtime caller lookup.
func BenchmarkForwardedExplicitCaller(b *testing.B) {
	d := discardDispatcher(InfoLevel)
	caller := CallerInfo{FileID: "bench/bench.go", Function: "run", Line: 1}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Log(InfoLevel, "bench", caller, staticMessage)
	}
}

// BenchmarkForwardedAsync measures the enqueue cost.
func BenchmarkForwardedAsync(b *testing.B) {
	d := NewBuilder().
		WithSink(sink.Nop).
		WithAcceptLevel(InfoLevel).
		WithAsync(true).
		Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Info("bench", staticMessage)
	}
	b.StopTimer()
	_ = d.Flush(context.Background())
}

// BenchmarkParallel measures contention on the configuration lock.
func BenchmarkParallel(b *testing.B) {
	d := discardDispatcher(InfoLevel)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			d.Info("bench", staticMessage)
		}
	})
}
