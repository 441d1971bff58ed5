package megasena

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := NewSlogLogger(slog.New(handler))

	logger.Info("Generated %d games: session=%s", 7, "alice")
	logger.Debug("hidden %d", 1)
	logger.Error("plain message")

	out := buf.String()
	assert.Contains(t, out, `msg="Generated 7 games: session=alice"`)
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="plain message"`)
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 2, strings.Count(out, "\n"))

	assert.NotNil(t, NewSlogLogger(nil).logger)
}
