package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ayopashop/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNew_WritesJSONWithTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	logger.Info().Str("component", "database").Msg("connected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "database", entry["component"])
	assert.Equal(t, "connected", entry["message"])
	assert.NotEmpty(t, entry["ts"])
}

func TestSetup_WithFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "logs", "shop.log")
	logger := Setup(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})

	logger.Debug().Msg("hello")

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
