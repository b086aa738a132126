package protolog_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/moonrepo/protohost/internal/protolog"
	"github.com/stretchr/testify/assert"
)

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := protolog.NewConsoleLogger(
		protolog.WithOutput(&buf),
		protolog.WithLevel(protolog.LevelWarn),
		protolog.WithTimestamp(false),
	)

	logger.Info(context.Background(), "should be dropped")
	assert.Empty(t, buf.String())

	logger.Warn(context.Background(), "should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestConsoleLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := protolog.NewConsoleLogger(
		protolog.WithOutput(&buf),
		protolog.WithTimestamp(false),
		protolog.WithLevelLabel(false),
	)

	tagged := logger.With(protolog.F("plugin", "node"))
	tagged.Info(context.Background(), "loaded")

	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "plugin=node")
}

func TestConsoleLoggerWithPluginTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := protolog.NewConsoleLogger(
		protolog.WithOutput(&buf),
		protolog.WithTimestamp(false),
		protolog.WithLevelLabel(false),
	)

	tagged := logger.WithPlugin("node")
	tagged.Info(context.Background(), "loaded")

	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "plugin=node")
}

func TestConsoleLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := protolog.NewConsoleLogger(
		protolog.WithOutput(&buf),
		protolog.WithJSONFormat(true),
		protolog.WithTimestamp(false),
	)

	logger.Error(context.Background(), "boom", protolog.F("code", "X"))
	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `"msg":"boom"`)
	assert.Contains(t, line, `"code":"X"`)
}

func TestNopLoggerDiscardsEverything(t *testing.T) {
	logger := protolog.NewNopLogger()
	logger.Info(context.Background(), "ignored")
	assert.Equal(t, protolog.LevelInfo, logger.Level())

	logger.SetLevel(protolog.LevelError)
	assert.Equal(t, protolog.LevelError, logger.Level())
	assert.Same(t, logger, logger.With(protolog.F("x", 1)))
	assert.Same(t, logger, logger.WithPlugin("node"))
}

func TestContextRoundTrip(t *testing.T) {
	logger := protolog.NewNopLogger()
	ctx := protolog.WithContext(context.Background(), logger)
	assert.Same(t, logger, protolog.FromContext(ctx))
	assert.Nil(t, protolog.FromContext(context.Background()))
}
