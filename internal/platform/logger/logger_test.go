package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"INFO":     zerolog.InfoLevel,
		" warn ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.DebugLevel,
		"nonsense": zerolog.DebugLevel,
		"panic":    zerolog.PanicLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	assert.Equal(t, "warn", opt.Level)
	assert.Equal(t, "json", opt.Format)
	assert.Equal(t, "remindme", opt.Service)
	assert.True(t, opt.WithCaller)
	assert.Equal(t, 5, opt.SampleEvery)
}

// TestInit_ChildrenCarryFields is the only test that calls Init, since the
// root logger is built once per process
func TestInit_ChildrenCarryFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Service: "remindme-test", Writer: &buf})

	Get().Info().Msg("root")
	Named("courier").Info().Msg("named")
	Get().Debug().Msg("filtered")

	ctx := WithRequest(context.Background(), "rid-9", "admin")
	C(ctx).Info().Msg("scoped")
	C(context.Background()).Info().Msg("bare")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	decode := func(s string) map[string]any {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(s), &m), s)
		return m
	}
	rootLine := decode(lines[0])
	assert.Equal(t, "remindme-test", rootLine["service"])

	assert.Equal(t, "courier", decode(lines[1])["component"])

	scoped := decode(lines[2])
	assert.Equal(t, "rid-9", scoped["request_id"])
	assert.Equal(t, "admin", scoped["role"])

	bare := decode(lines[3])
	assert.NotContains(t, bare, "request_id")
	assert.NotContains(t, bare, "role")
}

func TestNamed_EmptyIsRoot(t *testing.T) {
	assert.Same(t, Get(), Named(""))
}
