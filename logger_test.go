package sbit

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	ctx := context.Background()

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() error = %v, want nil", err)
	}
	if h.WithAttrs([]slog.Attr{slog.String("k", "v")}) == nil {
		t.Error("WithAttrs() = nil")
	}
	if h.WithGroup("g") == nil {
		t.Error("WithGroup() = nil")
	}
}

func TestLogger_DefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() = nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger enabled at Error level, want silent")
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Logger().Debug("decode", "width", 32)
	if !strings.Contains(buf.String(), "decode") {
		t.Errorf("log output = %q, want it to contain %q", buf.String(), "decode")
	}

	// nil restores the silent default.
	SetLogger(nil)
	buf.Reset()
	Logger().Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("log output after SetLogger(nil) = %q, want empty", buf.String())
	}
}
