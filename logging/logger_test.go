package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	// Should not panic
	l.Debug("test message", "key", "value")
	l.Info("test message", "key", "value")
	l.Warn("test message", "key", "value")
	l.Error("test message", "key", "value")

	_, ok := l.With("key", "value").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func TestSlogAdapter(t *testing.T) {
	t.Run("NewSlogAdapter with nil uses default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		assert.NotNil(t, adapter.logger)
	})

	t.Run("writes structured attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewTextLogger(&buf, slog.LevelDebug)
		l.Debug("registered resource", "name", "microsoft.graph.user")
		l.Info("info line")
		l.Warn("warn line")
		l.Error("error line")

		out := buf.String()
		assert.Contains(t, out, "registered resource")
		assert.Contains(t, out, "name=microsoft.graph.user")
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "level=ERROR")
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewTextLogger(&buf, slog.LevelWarn)
		l.Debug("hidden")
		l.Info("hidden too")
		assert.Empty(t, buf.String())
	})

	t.Run("With prepends attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewTextLogger(&buf, slog.LevelInfo).With("file", "user.md")
		l.Info("scanned")
		assert.Contains(t, buf.String(), "file=user.md")
	})
}

func TestOrNop(t *testing.T) {
	_, ok := OrNop(nil).(NopLogger)
	assert.True(t, ok)

	l := NewSlogAdapter(nil)
	assert.Same(t, l, OrNop(l))
}
