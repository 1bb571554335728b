package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/claudiobarsante/ignews-rest/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, logger.ParseLevel(tt.in), tt.in)
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "build", "warn")

	log.Info("hidden")
	log.Warn("shown", slog.Int("posts", 3))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "service=build")
	require.Contains(t, out, "posts=3")
}
