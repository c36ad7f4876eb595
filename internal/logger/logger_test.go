package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

func TestLogger_IncludesStackAndServiceOnError(t *testing.T) {
	var buf bytes.Buffer
	log := New("escli", &buf)
	log.Error().Stack().Err(errors.New("boom")).Msg("bulk failed")

	line := lastNonEmptyLine(buf.String())
	require.NotEmpty(t, line, "no output captured")

	var payload map[string]any
	require.NoError(t, jsoniter.Unmarshal([]byte(line), &payload), line)
	assert.Equal(t, "escli", payload["service"])
	assert.Equal(t, "error", payload["level"])
	assert.Equal(t, "boom", payload["error"])
	assert.Contains(t, payload, "stack")
}

func TestLogger_NoStackWithoutRequest(t *testing.T) {
	var buf bytes.Buffer
	log := New("escli", &buf)
	log.Info().Str("index", "logs").Msg("indexed")

	var payload map[string]any
	require.NoError(t, jsoniter.Unmarshal([]byte(lastNonEmptyLine(buf.String())), &payload))
	assert.Equal(t, "logs", payload["index"])
	assert.NotContains(t, payload, "stack")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		env   string
		want  zerolog.Level
	}{
		{"default", false, "", zerolog.InfoLevel},
		{"debug flag wins", true, "error", zerolog.DebugLevel},
		{"env", false, "warn", zerolog.WarnLevel},
		{"env upper case", false, "ERROR", zerolog.ErrorLevel},
		{"garbage", false, "loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.debug, tt.env))
		})
	}
}
