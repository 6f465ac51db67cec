package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		minLevel   slog.Level
		wantSource bool
	}{
		{"info below warn threshold", slog.LevelInfo, slog.LevelWarn, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelError, slog.LevelWarn, true},
		{"debug with debug threshold", slog.LevelDebug, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewSourceHandler(base, tt.minLevel))

			log.Log(t.Context(), tt.level, "ticket processed", "ticket_id", "tkt_1")

			out := buf.String()
			assert.Contains(t, out, "ticket_id=tkt_1")
			assert.Equal(t, tt.wantSource, strings.Contains(out, "sourcehandler_test.go"), out)
		})
	}
}

func TestSourceHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewSourceHandler(base, slog.LevelError)).With("component", "lock")

	log.Warn("lock contended")
	assert.NotContains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "component=lock")

	buf.Reset()
	log.Error("lock lost")
	assert.Contains(t, buf.String(), "source=")
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Infow("ignored", "k", "v")
	assert.NotNil(t, l.With("a", 1).Named("x"))
}
