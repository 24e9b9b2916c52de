package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*ZerologLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	return NewZerologLogger(l), &buf
}

func TestZerologLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", "4")

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"debug", "dbg", `"a":1`},
		{"info", "inf", `"b":2`},
		{"warn", "wrn", `"c":3`},
		{"error", "err", `"d":"4"`},
	}

	for _, tc := range tests {
		require.Contains(t, out, `"level":"`+tc.level+`"`)
		require.Contains(t, out, `"message":"`+tc.msg+`"`)
		require.Contains(t, out, tc.attr)
	}
}

func TestZerologLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "session", "user", "alice").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{`"component":"session"`, `"user":"alice"`, `"k":"v"`, `"message":"hello"`} {
		require.Contains(t, out, s)
	}
}

func TestSetup_InfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, false)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
}

func TestSetup_DebugUsesConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, true)

	log.Debug(context.Background(), "visible", "n", 1)

	out := buf.String()
	require.Contains(t, out, "visible")
	require.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output must not be JSON")
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	log.With("a", 1).Info(ctx, "y")
}
