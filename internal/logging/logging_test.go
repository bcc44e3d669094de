package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CosmWasm/wasmicq/internal/config"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "info", Format: config.FormatJSON})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Uint64("sequence", 7).Msg("ack processed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ack processed", line["message"])
	assert.Equal(t, "wasmicq", line["app"])
	assert.EqualValues(t, 7, line["sequence"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "debug", Format: config.FormatConsole})
	require.NoError(t, err)

	logger.Debug().Str("channel", "channel-0").Msg("handshake accepted")
	assert.Contains(t, buf.String(), "handshake accepted")
	assert.Contains(t, buf.String(), "channel-0")
}

func TestLoggerErrors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, config.LogConfig{Level: "loud", Format: config.FormatJSON})
	require.ErrorContains(t, err, "parse log level")

	_, err = New(&bytes.Buffer{}, config.LogConfig{Level: "info", Format: "xml"})
	require.ErrorContains(t, err, "unknown log format")
}
