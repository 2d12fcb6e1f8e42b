package instrument

import (
	"context"
	"log/slog"
	"testing"
)

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, cfg := range []*Config{nil, {ServiceName: "authgate", LogLevel: "debug"}} {
		// Act
		ins, err := New(context.Background(), cfg)

		// Assert
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, ok := ins.(*noopInstrumentation); !ok {
			t.Fatalf("New() = %T, want noop", ins)
		}
		_, span := ins.Tracer("test").Start(context.Background(), "op")
		if span.SpanContext().IsValid() {
			t.Errorf("noop span has a valid context")
		}
		span.End()
		if _, err := ins.Meter("test").Int64Counter("count"); err != nil {
			t.Errorf("Int64Counter() error = %v", err)
		}
		if err := ins.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}
}
